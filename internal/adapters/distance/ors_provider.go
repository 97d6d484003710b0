package distance

import (
	"errors"
	"strings"

	"roadtrip-itinerary-service/internal/adapters/cache"
	"roadtrip-itinerary-service/internal/platform/httpclient"
)

type ORSConfig struct {
	APIKey  string
	BaseURL string
	Profile string
}

// ORSProvider implements DirectionsProvider, DistanceMatrixProvider and
// CitySearcher using OpenRouteService.
//
// It coordinates:
//   - Persistent directions, matrix and geocode caching
//   - External API calls with rate limiting and retry/backoff
//
// The provider is safe for concurrent use. Nil caches are skipped.
type ORSProvider struct {
	client          *httpclient.Client
	apiKey          string
	baseURL         string
	profile         string
	directionsCache *cache.SQLDirectionsCache
	matrixCache     *cache.SQLMatrixCache
	geocodeCache    *cache.SQLGeocodeCache
}

func NewORSProvider(
	cfg ORSConfig,
	client *httpclient.Client,
	directionsCache *cache.SQLDirectionsCache,
	matrixCache *cache.SQLMatrixCache,
	geocodeCache *cache.SQLGeocodeCache,
) (*ORSProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if client == nil {
		return nil, errors.New("ORS http client is nil")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving-car"
	}

	return &ORSProvider{
		client:          client,
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		profile:         profile,
		directionsCache: directionsCache,
		matrixCache:     matrixCache,
		geocodeCache:    geocodeCache,
	}, nil
}
