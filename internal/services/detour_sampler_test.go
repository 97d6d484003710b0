package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

func TestInteriorPoints(t *testing.T) {
	pts := interiorPoints(at(0, 0), at(10, 20))

	require.Len(t, pts, numSections-2)
	assert.InDelta(t, 1.0, pts[0].Lon, 1e-9)
	assert.InDelta(t, 2.0, pts[0].Lat, 1e-9)
	assert.InDelta(t, 8.0, pts[len(pts)-1].Lon, 1e-9)
	assert.InDelta(t, 16.0, pts[len(pts)-1].Lat, 1e-9)
}

func TestSampleQueriesEachInteriorPoint(t *testing.T) {
	places := &fakePlaces{}
	s := NewDetourSampler(places, rand.New(rand.NewPCG(1, 1)))

	got := s.Sample(context.Background(), at(0, 0), at(0, 10), domain.CategoryMuseum, nil)
	assert.Empty(t, got)

	qs := places.recorded()
	require.Len(t, qs, numSections-2)
	for _, q := range qs {
		assert.Equal(t, domain.CategoryMuseum, q.Category)
		assert.Equal(t, 1, q.Limit)
		assert.Equal(t, 5000, q.RadiusMeters)
		require.NotNil(t, q.Proximity)
		assert.Nil(t, q.BBox)
	}
}

func TestSampleFiltersCandidates(t *testing.T) {
	hotel := poiAt("hotel", 0, 4)
	hotel.Category = "lodging, hotel"
	taken := poiAt("taken", 0, 6)
	keep := poiAt("keep", 0, 7)

	places := &fakePlaces{respond: func(int, ports.POIQuery) ([]domain.POI, error) {
		return []domain.POI{hotel, taken, keep, poiAt("endpoint", 0, 10)}, nil
	}}
	s := NewDetourSampler(places, nil)

	excluded := func(k domain.CoordKey) bool { return k == taken.Key() }
	got := s.Sample(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism, excluded)

	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
}

func TestSampleIgnoresFailedQueries(t *testing.T) {
	places := &fakePlaces{respond: func(call int, _ ports.POIQuery) ([]domain.POI, error) {
		if call%2 == 0 {
			return nil, errors.New("rate limited")
		}
		return []domain.POI{poiAt("ok", 0, 5)}, nil
	}}
	s := NewDetourSampler(places, nil)

	got := s.Sample(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestSampleReturnsOneOfManyCandidates(t *testing.T) {
	places := &fakePlaces{respond: func(call int, q ports.POIQuery) ([]domain.POI, error) {
		return []domain.POI{poiAt("p", q.Proximity.Lon+0.001, q.Proximity.Lat)}, nil
	}}
	s := NewDetourSampler(places, rand.New(rand.NewPCG(3, 4)))

	got := s.Sample(context.Background(), at(0, 0), at(0, 10), domain.CategoryTourism, nil)
	assert.Len(t, got, desiredPOICount)
}

func TestShuffleIsPermutation(t *testing.T) {
	s := NewDetourSampler(nil, rand.New(rand.NewPCG(42, 42)))
	in := []domain.POI{poiAt("a", 0, 1), poiAt("b", 0, 2), poiAt("c", 0, 3), poiAt("d", 0, 4), poiAt("e", 0, 5)}

	for i := 0; i < 20; i++ {
		out := s.shuffle(in)
		assert.ElementsMatch(t, in, out)
	}
	assert.Equal(t, "a", in[0].ID, "input must not be shuffled in place")
}
