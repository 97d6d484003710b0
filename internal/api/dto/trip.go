package dto

import "roadtrip-itinerary-service/internal/domain"

type CreateTripResponse struct {
	TripID string `json:"trip_id"`
}

// AddCityRequest selects a destination. Coordinates are [lon, lat]; bbox is
// [minLon, minLat, maxLon, maxLat].
type AddCityRequest struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	State       string    `json:"state"`
	Coordinates []float64 `json:"coordinates"`
	BBox        []float64 `json:"bbox"`
}

type ReorderCitiesRequest struct {
	CityIDs []int64 `json:"city_ids"`
}

type ReorderPOIsRequest struct {
	POIIDs []string `json:"poi_ids"`
}

type POIResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Coordinates  []float64 `json:"coordinates"`
	WikidataID   string    `json:"wikidata_id,omitempty"`
	ParentCityID int64     `json:"parent_city_id,omitempty"`
}

type HotelResponse struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	PriceLabel  string    `json:"price_label"`
	Coordinates []float64 `json:"coordinates"`
}

type CityResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Country     string          `json:"country"`
	State       string          `json:"state,omitempty"`
	Coordinates []float64       `json:"coordinates"`
	BBox        []float64       `json:"bbox,omitempty"`
	Route       []POIResponse   `json:"route"`
	Hotels      []HotelResponse `json:"hotels"`
}

type RouteResponse struct {
	Path            [][]float64 `json:"path"`
	DurationMinutes float64     `json:"duration_minutes"`
	BBox            []float64   `json:"bbox,omitempty"`
}

// SectionResponse lists the detours driven after leaving a city.
type SectionResponse struct {
	CityID   int64         `json:"city_id"`
	CityName string        `json:"city_name"`
	POIs     []POIResponse `json:"pois"`
}

type ItineraryResponse struct {
	TripID         string            `json:"trip_id"`
	Cities         []CityResponse    `json:"cities"`
	Sections       []SectionResponse `json:"sections"`
	Routes         []RouteResponse   `json:"routes"`
	Valid          bool              `json:"valid"`
	Loading        bool              `json:"loading"`
	DrivingMinutes float64           `json:"driving_minutes"`
}

type CitySearchResponse struct {
	Cities []CityResponse `json:"cities"`
}

type DescriptionResponse struct {
	WikidataID  string `json:"wikidata_id"`
	Description string `json:"description"`
}

func NewPOIResponse(p domain.POI) POIResponse {
	return POIResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Coordinates:  p.Coordinates.CoordsToList(),
		WikidataID:   p.WikidataID,
		ParentCityID: p.ParentCityID,
	}
}

func NewPOIResponses(pois []domain.POI) []POIResponse {
	out := make([]POIResponse, 0, len(pois))
	for _, p := range pois {
		out = append(out, NewPOIResponse(p))
	}
	return out
}

func NewCityResponse(c domain.City) CityResponse {
	res := CityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Country:     c.Country,
		State:       c.State,
		Coordinates: c.Coordinates.CoordsToList(),
		Route:       NewPOIResponses(c.Route),
		Hotels:      make([]HotelResponse, 0, len(c.Hotels)),
	}
	if c.BBox != nil {
		res.BBox = c.BBox.List()
	}
	for _, h := range c.Hotels {
		res.Hotels = append(res.Hotels, HotelResponse{
			ID:          h.ID,
			Name:        h.Name,
			PriceLabel:  h.PriceLabel,
			Coordinates: h.Coordinates.CoordsToList(),
		})
	}
	return res
}

func NewItineraryResponse(tripID string, it domain.Itinerary) ItineraryResponse {
	res := ItineraryResponse{
		TripID:         tripID,
		Cities:         make([]CityResponse, 0, len(it.Cities)),
		Sections:       make([]SectionResponse, 0, len(it.Cities)),
		Routes:         make([]RouteResponse, 0, len(it.Routes)),
		Valid:          it.Valid,
		Loading:        it.Loading,
		DrivingMinutes: it.DrivingMinutes,
	}
	for _, c := range it.Cities {
		res.Cities = append(res.Cities, NewCityResponse(c))
	}
	for _, s := range it.Sections() {
		res.Sections = append(res.Sections, SectionResponse{
			CityID:   s.City.ID,
			CityName: s.City.Name,
			POIs:     NewPOIResponses(s.POIs),
		})
	}
	for _, r := range it.Routes {
		path := make([][]float64, 0, len(r.Path))
		for _, c := range r.Path {
			path = append(path, c.CoordsToList())
		}
		rr := RouteResponse{Path: path, DurationMinutes: r.DurationMinutes}
		if r.BBox != nil {
			rr.BBox = r.BBox.List()
		}
		res.Routes = append(res.Routes, rr)
	}
	return res
}
