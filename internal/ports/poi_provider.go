package ports

import (
	"context"
	"roadtrip-itinerary-service/internal/domain"
)

// POIQuery describes one Places search. Exactly one of Proximity or BBox
// is normally set; when both are present the provider may use both.
type POIQuery struct {
	Category     domain.Category
	Proximity    *domain.Coordinates
	BBox         *domain.BBox
	Limit        int
	RadiusMeters int
}

type POIProvider interface {
	SearchPOIs(ctx context.Context, q POIQuery) ([]domain.POI, error)
}

// DescriptionProvider returns a short text for a Wikidata entity.
type DescriptionProvider interface {
	Describe(ctx context.Context, wikidataID string) (string, error)
}
