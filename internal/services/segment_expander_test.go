package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-itinerary-service/internal/adapters/distance"
	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

func newExpander(mock *distance.MockProvider, places *fakePlaces) SegmentExpander {
	return SegmentExpander{
		Directions: mock,
		Detours:    NewDetourSampler(places, rand.New(rand.NewPCG(1, 2))),
	}
}

// poolPlaces returns the same pool of POIs from every query.
func poolPlaces(pool ...domain.POI) *fakePlaces {
	return &fakePlaces{respond: func(int, ports.POIQuery) ([]domain.POI, error) {
		return pool, nil
	}}
}

func TestExpandSplicesMidpointDetour(t *testing.T) {
	mock := distance.NewMockProvider(10) // A(0,0) -> B(0,10) is 100 minutes
	places := &fakePlaces{respond: func(call int, _ ports.POIQuery) ([]domain.POI, error) {
		if call == 0 {
			return []domain.POI{poiAt("mid", 0.01, 5)}, nil
		}
		return nil, nil
	}}

	plan, err := newExpander(mock, places).Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism)
	require.NoError(t, err)

	require.Len(t, plan.POIs, 1)
	assert.Equal(t, "mid", plan.POIs[0].ID)
	require.Len(t, plan.Routes, 2)
	assert.Equal(t, at(0, 0), plan.Routes[0].Start())
	assert.Equal(t, at(0.01, 5), plan.Routes[0].End())
	assert.Equal(t, at(0.01, 5), plan.Routes[1].Start())
	assert.Equal(t, at(0, 10), plan.Routes[1].End())
	assert.InDelta(t, 160, plan.TotalMinutes, 0.1)
}

func TestExpandWithoutCandidatesKeepsSingleLeg(t *testing.T) {
	mock := distance.NewMockProvider(10)
	places := &fakePlaces{}

	plan, err := newExpander(mock, places).Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryFood)
	require.NoError(t, err)

	assert.Empty(t, plan.POIs)
	assert.Len(t, plan.Routes, 1)
	assert.Equal(t, int64(1), mock.DirectionsCalls())
	assert.Equal(t, numSections-2, places.calls())
}

func TestExpandCapsDetourCount(t *testing.T) {
	mock := distance.NewMockProvider(10)

	var mu sync.Mutex
	next := 0
	places := &fakePlaces{respond: func(_ int, q ports.POIQuery) ([]domain.POI, error) {
		mu.Lock()
		defer mu.Unlock()
		next++
		// A fresh stop right next to each query point.
		return []domain.POI{poiAt("p", q.Proximity.Lon+float64(next)*1e-4, q.Proximity.Lat)}, nil
	}}

	plan, err := newExpander(mock, places).Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism)
	require.NoError(t, err)

	assert.Len(t, plan.POIs, MaxDetoursPerLeg)
	assert.Len(t, plan.Routes, MaxDetoursPerLeg+1)
	assert.LessOrEqual(t, plan.TotalMinutes, MaxLegMinutes)
}

func TestExpandNeverExceedsBudget(t *testing.T) {
	mock := distance.NewMockProvider(65) // 650 minutes of driving
	places := poolPlaces(poiAt("a", 0, 5), poiAt("b", 0, 2), poiAt("c", 0, 8))

	plan, err := newExpander(mock, places).Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism)
	require.NoError(t, err)

	// One on-line stop fits (650 + 60); a second would need 770.
	assert.Len(t, plan.POIs, 1)
	assert.Len(t, plan.Routes, 2)
	assert.LessOrEqual(t, plan.TotalMinutes, MaxLegMinutes)
}

func TestExpandLongLegStopsWithoutDetours(t *testing.T) {
	mock := distance.NewMockProvider(80) // 800 minutes, already over budget
	places := poolPlaces(poiAt("a", 0, 5))

	plan, err := newExpander(mock, places).Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism)
	require.NoError(t, err)

	assert.Empty(t, plan.POIs)
	assert.Len(t, plan.Routes, 1)
	assert.Zero(t, places.calls())
}

// recordingSource remembers every candidate handed to the expander.
type recordingSource struct {
	inner   DetourSource
	offered []domain.POI
}

func (r *recordingSource) Sample(
	ctx context.Context,
	from, to domain.Coordinates,
	category domain.Category,
	excluded func(domain.CoordKey) bool,
) []domain.POI {
	got := r.inner.Sample(ctx, from, to, category, excluded)
	r.offered = append(r.offered, got...)
	return got
}

func TestExpandNeverReoffersRejectedPOI(t *testing.T) {
	mock := distance.NewMockProvider(10)
	bad := poiAt("bad", 0, 5)
	mock.Unroutable[bad.Key()] = true
	good := poiAt("good", 0, 3)

	src := &recordingSource{inner: NewDetourSampler(poolPlaces(bad, good), rand.New(rand.NewPCG(7, 7)))}
	e := SegmentExpander{Directions: mock, Detours: src}

	plan, err := e.Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism)
	require.NoError(t, err)

	badOffers := 0
	for _, p := range src.offered {
		if p.ID == "bad" {
			badOffers++
		}
	}
	assert.LessOrEqual(t, badOffers, 1)

	require.Len(t, plan.POIs, 1)
	assert.Equal(t, "good", plan.POIs[0].ID)
}

func TestExpandNoViableLeg(t *testing.T) {
	mock := distance.NewMockProvider(10)
	mock.Unroutable[at(0, 10).Key()] = true

	_, err := newExpander(mock, &fakePlaces{}).Expand(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism)
	assert.ErrorIs(t, err, ErrNoViableLeg)
	assert.ErrorIs(t, err, ports.ErrNoRoute)
}

func TestExpandHonoursCancellation(t *testing.T) {
	mock := distance.NewMockProvider(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newExpander(mock, &fakePlaces{}).Expand(ctx, at(0, 0), at(0, 10), domain.CategoryTourism)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLongestOpenPiecePrefersFirstOnTies(t *testing.T) {
	s := newSegmentExpansionState(at(0, 0), at(0, 2), domain.RouteLeg{DurationMinutes: 100})
	s.accept(0, poiAt("m", 0, 1),
		domain.RouteLeg{DurationMinutes: 50},
		domain.RouteLeg{DurationMinutes: 50},
	)

	assert.Equal(t, 0, s.longestOpenPiece())
	s.exhaust(0)
	assert.Equal(t, 1, s.longestOpenPiece())
	s.exhaust(1)
	assert.Equal(t, -1, s.longestOpenPiece())

	assert.Equal(t, 160.0, s.TotalMinutes())
	assert.True(t, s.Excluded(poiAt("m", 0, 1).Key()))
}
