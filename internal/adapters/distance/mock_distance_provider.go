package distance

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

// MockProvider is a deterministic in-memory DirectionsProvider and
// DistanceMatrixProvider. Legs are straight lines whose duration is the
// planar distance in degrees times MinutesPerDegree.
type MockProvider struct {
	MinutesPerDegree float64

	// Unroutable points fail every directions request that touches them.
	Unroutable map[domain.CoordKey]bool
	// MatrixErr, when set, is returned by CostMatrix.
	MatrixErr error

	mu     sync.Mutex
	legs   map[[2]domain.CoordKey]float64
	dCalls atomic.Int64
	mCalls atomic.Int64
}

func NewMockProvider(minutesPerDegree float64) *MockProvider {
	return &MockProvider{
		MinutesPerDegree: minutesPerDegree,
		Unroutable:       map[domain.CoordKey]bool{},
		legs:             map[[2]domain.CoordKey]float64{},
	}
}

// SetLeg overrides the duration for from -> to.
func (p *MockProvider) SetLeg(from, to domain.Coordinates, minutes float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.legs[[2]domain.CoordKey{from.Key(), to.Key()}] = minutes
}

func (p *MockProvider) DirectionsCalls() int64 { return p.dCalls.Load() }
func (p *MockProvider) MatrixCalls() int64     { return p.mCalls.Load() }

func planar(a, b domain.Coordinates) float64 {
	return math.Hypot(a.Lon-b.Lon, a.Lat-b.Lat)
}

func (p *MockProvider) Directions(ctx context.Context, from, to domain.Coordinates) (domain.RouteLeg, error) {
	p.dCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return domain.RouteLeg{}, err
	}

	p.mu.Lock()
	minutes, ok := p.legs[[2]domain.CoordKey{from.Key(), to.Key()}]
	unroutable := p.Unroutable[from.Key()] || p.Unroutable[to.Key()]
	p.mu.Unlock()

	if unroutable {
		return domain.RouteLeg{}, fmt.Errorf("mock: %w between %v and %v", ports.ErrNoRoute, from, to)
	}
	if !ok {
		minutes = planar(from, to) * p.MinutesPerDegree
	}

	return domain.RouteLeg{
		Path:            []domain.Coordinates{from, to},
		DurationMinutes: minutes,
	}, nil
}

func (p *MockProvider) CostMatrix(ctx context.Context, locations []domain.Coordinates) ([][]float64, error) {
	p.mCalls.Add(1)
	if p.MatrixErr != nil {
		return nil, p.MatrixErr
	}

	out := make([][]float64, len(locations))
	for i := range locations {
		out[i] = make([]float64, len(locations))
		for j := range locations {
			out[i][j] = planar(locations[i], locations[j])
		}
	}
	return out, nil
}
