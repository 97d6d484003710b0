package hotels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-itinerary-service/internal/platform/httpclient"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := New("secret", "", ts.URL, httpclient.New(httpclient.Options{Service: "hotels"}))
	require.NoError(t, err)
	return c
}

func TestResolveRegionMatchesCityAndCountry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/regions", r.URL.Path)
		assert.Equal(t, "St Ives", r.URL.Query().Get("query"))
		assert.Equal(t, "GB", r.URL.Query().Get("domain"))
		assert.Equal(t, "en_GB", r.URL.Query().Get("locale"))
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "hotels-com-provider.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))

		_, _ = w.Write([]byte(`{"data":[
			{"type":"AIRPORT","gaiaId":"1","regionNames":{"shortName":"St. Ives"},"hierarchyInfo":{"country":{"name":"United Kingdom"}}},
			{"type":"CITY","gaiaId":"2","regionNames":{"shortName":"St. Ives"},"hierarchyInfo":{"country":{"name":"Australia"}}},
			{"type":"CITY","gaiaId":"3","regionNames":{"shortName":"St. Ives"},"hierarchyInfo":{"country":{"name":"United Kingdom"}}}
		]}`))
	})

	id, err := c.ResolveRegion(context.Background(), "St. Ives", "United Kingdom")
	require.NoError(t, err)
	assert.Equal(t, "3", id)
}

func TestResolveRegionNumericGaiaID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"type":"CITY","gaiaId":2114,"regionNames":{"shortName":"Leeds"},"hierarchyInfo":{"country":{"name":"United Kingdom"}}}]}`))
	})

	id, err := c.ResolveRegion(context.Background(), "Leeds", "United Kingdom")
	require.NoError(t, err)
	assert.Equal(t, "2114", id)
}

func TestResolveRegionNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.ResolveRegion(context.Background(), "Atlantis", "Nowhere")
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestSearchHotels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v2/hotels/search", r.URL.Path)
		assert.Equal(t, "2114", q.Get("region_id"))
		assert.Equal(t, "2026-10-16", q.Get("checkin_date"))
		assert.Equal(t, "2026-10-17", q.Get("checkout_date"))
		assert.Equal(t, "RECOMMENDED", q.Get("sort_order"))
		assert.Equal(t, "1", q.Get("adults_number"))
		assert.Equal(t, "PARKING", q.Get("amenities"))
		assert.Equal(t, "SHOW_AVAILABLE_ONLY", q.Get("available_filter"))
		assert.Equal(t, lodgingTypes, q.Get("lodging_type"))

		_, _ = w.Write([]byte(`{"properties":[
			{"id":"h1","name":"The Queens","mapMarker":{"label":"£89","latLong":{"latitude":53.7953,"longitude":-1.5478}}}
		]}`))
	})

	in := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	hotels, err := c.SearchHotels(context.Background(), "2114", in, in.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "The Queens", hotels[0].Name)
	assert.Equal(t, "£89", hotels[0].PriceLabel)
	assert.Equal(t, 89.0, hotels[0].Price())
	assert.Equal(t, -1.5478, hotels[0].Coordinates.Lon)
}
