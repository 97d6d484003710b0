package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

// CachedPOIProvider is a read-through cache in front of a POIProvider.
// Failed searches are never cached.
type CachedPOIProvider struct {
	Next  ports.POIProvider
	Cache JSONCache
	TTL   time.Duration
}

func poiQueryKey(q ports.POIQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "poi:%s:%d:%d", q.Category, q.Limit, q.RadiusMeters)
	if q.Proximity != nil {
		b.WriteString(":p=" + q.Proximity.Key().String())
	}
	if q.BBox != nil {
		lo := domain.Coordinates{Lon: q.BBox.MinLon, Lat: q.BBox.MinLat}.Key()
		hi := domain.Coordinates{Lon: q.BBox.MaxLon, Lat: q.BBox.MaxLat}.Key()
		b.WriteString(":b=" + lo.String() + "," + hi.String())
	}
	return b.String()
}

func (c *CachedPOIProvider) SearchPOIs(ctx context.Context, q ports.POIQuery) ([]domain.POI, error) {
	key := poiQueryKey(q)

	var hit []domain.POI
	if ok, err := c.Cache.Get(ctx, key, &hit); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("poi cache read failed")
	} else if ok {
		return hit, nil
	}

	pois, err := c.Next.SearchPOIs(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := c.Cache.Set(ctx, key, pois, c.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("poi cache write failed")
	}
	return pois, nil
}

// CachedHotelProvider caches region lookups and hotel searches.
type CachedHotelProvider struct {
	Next  ports.HotelProvider
	Cache JSONCache
	TTL   time.Duration
}

func (c *CachedHotelProvider) ResolveRegion(ctx context.Context, name, country string) (string, error) {
	key := "region:" + strings.ToLower(name) + "|" + strings.ToLower(country)

	var id string
	if ok, err := c.Cache.Get(ctx, key, &id); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("region cache read failed")
	} else if ok {
		return id, nil
	}

	id, err := c.Next.ResolveRegion(ctx, name, country)
	if err != nil {
		return "", err
	}

	if err := c.Cache.Set(ctx, key, id, c.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("region cache write failed")
	}
	return id, nil
}

func (c *CachedHotelProvider) SearchHotels(
	ctx context.Context,
	regionID string,
	checkIn, checkOut time.Time,
) ([]domain.Hotel, error) {
	key := fmt.Sprintf("hotels:%s:%s:%s", regionID, checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly))

	var hit []domain.Hotel
	if ok, err := c.Cache.Get(ctx, key, &hit); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("hotel cache read failed")
	} else if ok {
		return hit, nil
	}

	hotels, err := c.Next.SearchHotels(ctx, regionID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if err := c.Cache.Set(ctx, key, hotels, c.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("hotel cache write failed")
	}
	return hotels, nil
}

// CachedDescriptionProvider caches non-empty descriptions.
type CachedDescriptionProvider struct {
	Next  ports.DescriptionProvider
	Cache JSONCache
	TTL   time.Duration
}

func (c *CachedDescriptionProvider) Describe(ctx context.Context, wikidataID string) (string, error) {
	key := "desc:" + wikidataID

	var text string
	if ok, err := c.Cache.Get(ctx, key, &text); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("description cache read failed")
	} else if ok {
		return text, nil
	}

	text, err := c.Next.Describe(ctx, wikidataID)
	if err != nil || text == "" {
		return text, err
	}

	if err := c.Cache.Set(ctx, key, text, c.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("description cache write failed")
	}
	return text, nil
}
