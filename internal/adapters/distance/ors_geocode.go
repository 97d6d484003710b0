package distance

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/adapters/cache"
	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		BBox     []float64 `json:"bbox"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			ID      string `json:"id"`
			GID     string `json:"gid"`
			Name    string `json:"name"`
			Country string `json:"country"`
			Region  string `json:"region"`
		} `json:"properties"`
	} `json:"features"`
}

// SearchCities resolves free text to city candidates using the
// OpenRouteService geocoder (/geocode/search), restricted to localities.
func (o *ORSProvider) SearchCities(ctx context.Context, text string) (_ []domain.City, err error) {
	defer obs.Time(ctx, "ors.SearchCities")(&err)

	norm := cache.NormalizeQuery(text)
	if norm == "" {
		return []domain.City{}, nil
	}

	if o.geocodeCache != nil {
		cities, ok, err := o.geocodeCache.Get(ctx, norm)
		if err != nil {
			log.Warn().Err(err).Msg("geocode cache read failed")
		} else if ok {
			return cities, nil
		}
	}

	endpoint := o.baseURL + "/geocode/search"

	var decoded geocodeResponse
	err = o.client.DoJSON(ctx, "geocode", func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("layers", "locality")
		q.Set("size", "5")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}

	cities := make([]domain.City, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords, ok := domain.CoordsFromList(f.Geometry.Coordinates)
		if !ok {
			continue
		}
		cities = append(cities, domain.City{
			ID:          cityID(f.Properties.ID, f.Properties.GID),
			Name:        f.Properties.Name,
			Country:     f.Properties.Country,
			State:       f.Properties.Region,
			Coordinates: coords,
			BBox:        domain.BBoxFromList(f.BBox),
		})
	}

	if o.geocodeCache != nil && len(cities) > 0 {
		if err := o.geocodeCache.Put(ctx, norm, cities); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	return cities, nil
}

// cityID prefers the numeric gazetteer id and falls back to a stable hash of the gid.
func cityID(id, gid string) int64 {
	if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil && n > 0 {
		return n
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(gid + "|" + id))
	return int64(h.Sum64() >> 1)
}
