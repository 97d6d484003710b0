package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"roadtrip-itinerary-service/internal/domain"
)

// CitySeed is one entry of a demo trip file.
type CitySeed struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	State   string    `json:"state"`
	Lon     float64   `json:"longitude"`
	Lat     float64   `json:"latitude"`
	BBox    []float64 `json:"bbox"`
}

// LoadCitySeed reads an ordered list of cities from a JSON file.
func LoadCitySeed(jsonPath string) ([]domain.City, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed cities: read %q: %w", jsonPath, err)
	}

	var data []CitySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed cities: parse json: %w", err)
	}

	cities := make([]domain.City, 0, len(data))
	seen := make(map[int64]struct{}, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return nil, fmt.Errorf("seed cities: invalid id at index %d: %d", i+1, item.ID)
		}
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("seed cities: duplicate id %d at index %d", item.ID, i+1)
		}
		seen[item.ID] = struct{}{}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("seed cities: item at index %d: name cannot be empty", i+1)
		}

		cities = append(cities, domain.City{
			ID:          item.ID,
			Name:        name,
			Country:     strings.TrimSpace(item.Country),
			State:       strings.TrimSpace(item.State),
			Coordinates: domain.Coordinates{Lon: item.Lon, Lat: item.Lat},
			BBox:        domain.BBoxFromList(item.BBox),
		})
	}

	return cities, nil
}
