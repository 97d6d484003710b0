package mapbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/httpclient"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
)

// PlacesClient implements POIProvider with the Mapbox geocoding "places" endpoint.
type PlacesClient struct {
	client  *httpclient.Client
	token   string
	baseURL string
}

func NewPlacesClient(token, baseURL string, client *httpclient.Client) (*PlacesClient, error) {
	if token == "" {
		return nil, errors.New("mapbox access token is empty")
	}
	if client == nil {
		return nil, errors.New("mapbox http client is nil")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.mapbox.com"
	}
	return &PlacesClient{client: client, token: token, baseURL: baseURL}, nil
}

type placesResponse struct {
	Features []struct {
		ID         string    `json:"id"`
		Text       string    `json:"text"`
		Center     []float64 `json:"center"`
		Properties struct {
			Category string `json:"category"`
			Wikidata string `json:"wikidata"`
		} `json:"properties"`
	} `json:"features"`
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (c *PlacesClient) SearchPOIs(ctx context.Context, q ports.POIQuery) (_ []domain.POI, err error) {
	defer obs.Time(ctx, "mapbox.SearchPOIs")(&err)

	category := q.Category
	if category == "" {
		category = domain.CategoryTourism
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", c.baseURL, url.PathEscape(string(category)))

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("types", "poi")
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Proximity != nil {
		params.Set("proximity", formatFloat(q.Proximity.Lon)+","+formatFloat(q.Proximity.Lat))
	}
	if q.BBox != nil {
		parts := make([]string, 0, 4)
		for _, v := range q.BBox.List() {
			parts = append(parts, formatFloat(v))
		}
		params.Set("bbox", strings.Join(parts, ","))
	}
	if q.RadiusMeters > 0 {
		params.Set("radius", strconv.Itoa(q.RadiusMeters))
	}

	var pr placesResponse
	err = c.client.DoJSON(ctx, "places", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &pr)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}

	out := make([]domain.POI, 0, len(pr.Features))
	for _, f := range pr.Features {
		coords, ok := domain.CoordsFromList(f.Center)
		if !ok {
			continue
		}
		out = append(out, domain.POI{
			ID:          f.ID,
			Name:        f.Text,
			Category:    f.Properties.Category,
			Coordinates: coords,
			WikidataID:  f.Properties.Wikidata,
		})
	}

	return out, nil
}
