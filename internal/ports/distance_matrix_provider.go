package ports

import (
	"context"
	"roadtrip-itinerary-service/internal/domain"
)

// DistanceMatrixProvider returns pairwise travel costs between locations.
type DistanceMatrixProvider interface {
	// CostMatrix returns an N×N matrix where matrix[i][j] is the road
	// distance in meters from locations[i] to locations[j].
	// Unreachable pairs are +Inf.
	CostMatrix(ctx context.Context, locations []domain.Coordinates) ([][]float64, error)
}
