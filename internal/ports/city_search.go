package ports

import (
	"context"
	"roadtrip-itinerary-service/internal/domain"
)

// CitySearcher resolves free text to candidate cities with coordinates and bounds.
type CitySearcher interface {
	SearchCities(ctx context.Context, text string) ([]domain.City, error)
}
