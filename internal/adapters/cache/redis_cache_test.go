package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheGetSetTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	var miss string
	ok, err := c.Get(ctx, "k", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	ok, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	mr.FastForward(2 * time.Minute)
	ok, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

type countingPOIs struct {
	calls int
	pois  []domain.POI
	err   error
}

func (c *countingPOIs) SearchPOIs(ctx context.Context, q ports.POIQuery) ([]domain.POI, error) {
	c.calls++
	return c.pois, c.err
}

func TestCachedPOIProviderReadThrough(t *testing.T) {
	ctx := context.Background()
	rc, _ := newTestRedis(t)

	next := &countingPOIs{pois: []domain.POI{{ID: "poi.1", Name: "Louvre", Coordinates: domain.Coordinates{Lon: 2.3376, Lat: 48.8606}}}}
	p := &CachedPOIProvider{Next: next, Cache: rc, TTL: time.Hour}

	center := domain.Coordinates{Lon: 2.35, Lat: 48.85}
	q := ports.POIQuery{Category: domain.CategoryMuseum, Proximity: &center, Limit: 10, RadiusMeters: 15000}

	first, err := p.SearchPOIs(ctx, q)
	require.NoError(t, err)
	second, err := p.SearchPOIs(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	other := q
	other.Category = domain.CategoryFood
	_, err = p.SearchPOIs(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedPOIProviderDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	rc, _ := newTestRedis(t)

	next := &countingPOIs{err: errors.New("boom")}
	p := &CachedPOIProvider{Next: next, Cache: rc, TTL: time.Hour}

	q := ports.POIQuery{Category: domain.CategoryTourism, Limit: 1}
	_, err := p.SearchPOIs(ctx, q)
	require.Error(t, err)
	_, err = p.SearchPOIs(ctx, q)
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}
