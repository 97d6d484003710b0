package domain

import "strings"

// Category is the Places search category used for POI discovery.
type Category string

const (
	CategoryTourism  Category = "tourism"
	CategoryFood     Category = "food"
	CategoryOutdoors Category = "outdoors"
	CategoryMuseum   Category = "museum"
)

// ParseCategory accepts API names and the trip chip aliases.
// Empty input resolves to tourism.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "tourism":
		return CategoryTourism, true
	case "food":
		return CategoryFood, true
	case "sightseeing", "outdoors":
		return CategoryOutdoors, true
	case "museum":
		return CategoryMuseum, true
	}
	return "", false
}

// POI is a point of interest. Two POIs are the same place iff their
// coordinates share a CoordKey.
type POI struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Coordinates  Coordinates `json:"coordinates"`
	WikidataID   string      `json:"wikidata_id,omitempty"`
	ParentCityID int64       `json:"parent_city_id,omitempty"`
}

// IsLodging reports whether the provider tagged the POI as a hotel.
func (p POI) IsLodging() bool {
	return strings.Contains(strings.ToLower(p.Category), "hotel")
}

func (p POI) Key() CoordKey { return p.Coordinates.Key() }
