package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/httpclient"
	"roadtrip-itinerary-service/internal/platform/obs"
)

var ErrRegionNotFound = errors.New("hotels: region not found")

const (
	locale       = "en_GB"
	searchDomain = "GB"
	lodgingTypes = "HOSTAL,APARTMENT,APART_HOTEL,CHALET,HOTEL,RYOKAN,BED_AND_BREAKFAST,HOSTEL"
)

// Client implements HotelProvider against the hotels.com RapidAPI provider.
type Client struct {
	client  *httpclient.Client
	key     string
	host    string
	baseURL string
}

func New(key, host, baseURL string, client *httpclient.Client) (*Client, error) {
	if key == "" {
		return nil, errors.New("hotels API key is required")
	}
	if client == nil {
		return nil, errors.New("hotels http client is nil")
	}
	if host == "" {
		host = "hotels-com-provider.p.rapidapi.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://" + host
	}
	return &Client{client: client, key: key, host: host, baseURL: baseURL}, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	u := c.baseURL + path + "?" + params.Encode()
	return c.client.DoJSON(ctx, endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-RapidAPI-Key", c.key)
		req.Header.Set("X-RapidAPI-Host", c.host)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, out)
}

// rawID accepts ids encoded as JSON strings or numbers.
func rawID(raw json.RawMessage) string {
	id := strings.Trim(string(raw), `"`)
	if id == "null" {
		return ""
	}
	return id
}

type regionsResponse struct {
	Data []struct {
		Type        string          `json:"type"`
		GaiaID      json.RawMessage `json:"gaiaId"`
		RegionNames struct {
			ShortName string `json:"shortName"`
		} `json:"regionNames"`
		HierarchyInfo struct {
			Country struct {
				Name string `json:"name"`
			} `json:"country"`
		} `json:"hierarchyInfo"`
	} `json:"data"`
}

// ResolveRegion returns the gaiaId of the first CITY region whose short
// name and country match exactly. The query itself drops '.' characters.
func (c *Client) ResolveRegion(ctx context.Context, name, country string) (_ string, err error) {
	defer obs.Time(ctx, "hotels.ResolveRegion")(&err)

	params := url.Values{}
	params.Set("query", strings.ReplaceAll(name, ".", ""))
	params.Set("domain", searchDomain)
	params.Set("locale", locale)

	var rr regionsResponse
	if err := c.get(ctx, "regions", "/v2/regions", params, &rr); err != nil {
		return "", fmt.Errorf("regions request failed: %w", err)
	}

	for _, item := range rr.Data {
		if item.Type == "CITY" && item.RegionNames.ShortName == name && item.HierarchyInfo.Country.Name == country {
			if id := rawID(item.GaiaID); id != "" {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s, %s", ErrRegionNotFound, name, country)
}

type searchResponse struct {
	Properties []struct {
		ID        json.RawMessage `json:"id"`
		Name      string          `json:"name"`
		MapMarker struct {
			Label   string `json:"label"`
			LatLong struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"latLong"`
		} `json:"mapMarker"`
	} `json:"properties"`
}

// SearchHotels lists available hotels for one adult in recommended order.
func (c *Client) SearchHotels(
	ctx context.Context,
	regionID string,
	checkIn, checkOut time.Time,
) (_ []domain.Hotel, err error) {
	defer obs.Time(ctx, "hotels.SearchHotels")(&err)

	params := url.Values{}
	params.Set("region_id", regionID)
	params.Set("locale", locale)
	params.Set("domain", searchDomain)
	params.Set("checkin_date", checkIn.Format(time.DateOnly))
	params.Set("checkout_date", checkOut.Format(time.DateOnly))
	params.Set("sort_order", "RECOMMENDED")
	params.Set("adults_number", "1")
	params.Set("lodging_type", lodgingTypes)
	params.Set("amenities", "PARKING")
	params.Set("available_filter", "SHOW_AVAILABLE_ONLY")

	var sr searchResponse
	if err := c.get(ctx, "search", "/v2/hotels/search", params, &sr); err != nil {
		return nil, fmt.Errorf("hotel search request failed: %w", err)
	}

	out := make([]domain.Hotel, 0, len(sr.Properties))
	for _, p := range sr.Properties {
		out = append(out, domain.Hotel{
			ID:         rawID(p.ID),
			Name:       p.Name,
			PriceLabel: p.MapMarker.Label,
			Coordinates: domain.Coordinates{
				Lon: p.MapMarker.LatLong.Longitude,
				Lat: p.MapMarker.LatLong.Latitude,
			},
		})
	}
	return out, nil
}
