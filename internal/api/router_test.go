package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-itinerary-service/internal/adapters/distance"
	"roadtrip-itinerary-service/internal/adapters/store"
	"roadtrip-itinerary-service/internal/api"
	"roadtrip-itinerary-service/internal/api/dto"
	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
	"roadtrip-itinerary-service/internal/services"
)

type stubPlaces struct{}

func (stubPlaces) SearchPOIs(context.Context, ports.POIQuery) ([]domain.POI, error) { return nil, nil }

type stubCities []domain.City

func (s stubCities) SearchCities(context.Context, string) ([]domain.City, error) { return s, nil }

type stubDescriptions struct{}

func (stubDescriptions) Describe(_ context.Context, id string) (string, error) {
	return "About " + id + ".", nil
}

func newTestServer(t *testing.T) (*httptest.Server, *distance.MockProvider) {
	t.Helper()

	mock := distance.NewMockProvider(10)
	orderer := services.RouteOrderer{Matrix: mock}
	planner := &services.Planner{
		Legs: services.LegPlanner{
			Expander: services.SegmentExpander{
				Directions: mock,
				Detours:    services.NewDetourSampler(stubPlaces{}, nil),
			},
			Orderer: orderer,
		},
		Cities:       services.CityRoutePlanner{Places: stubPlaces{}, Orderer: orderer},
		Descriptions: stubDescriptions{},
	}

	h := api.NewRouter(api.Deps{
		Trips:   store.NewRegistry(),
		Planner: planner,
		Cities: stubCities{{
			ID: 101, Name: "Lisbon", Country: "Portugal",
			Coordinates: domain.Coordinates{Lon: -9.14, Lat: 38.72},
		}},
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, mock
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, buf.Bytes()
}

func createTrip(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	res, body := do(t, ts, http.MethodPost, "/trips", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created dto.CreateTripResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.TripID)
	return created.TripID
}

func addCity(t *testing.T, ts *httptest.Server, tripID string, id int64, name string, lon, lat float64) *http.Response {
	t.Helper()
	res, _ := do(t, ts, http.MethodPost, "/trips/"+tripID+"/cities", dto.AddCityRequest{
		ID: id, Name: name, Country: "Portugal", Coordinates: []float64{lon, lat},
	})
	return res
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	res, body := do(t, ts, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestTripCityLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createTrip(t, ts)

	assert.Equal(t, http.StatusCreated, addCity(t, ts, id, 1, "Lisbon", -9.14, 38.72).StatusCode)
	assert.Equal(t, http.StatusCreated, addCity(t, ts, id, 2, "Porto", -8.61, 41.15).StatusCode)
	assert.Equal(t, http.StatusConflict, addCity(t, ts, id, 1, "Lisbon", -9.14, 38.72).StatusCode)

	res, body := do(t, ts, http.MethodPut, "/trips/"+id+"/cities/order", dto.ReorderCitiesRequest{CityIDs: []int64{2, 1}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var it dto.ItineraryResponse
	require.NoError(t, json.Unmarshal(body, &it))
	require.Len(t, it.Cities, 2)
	assert.Equal(t, "Porto", it.Cities[0].Name)
	assert.Equal(t, []float64{-8.61, 41.15}, it.Cities[0].Coordinates)

	res, _ = do(t, ts, http.MethodPut, "/trips/"+id+"/cities/order", dto.ReorderCitiesRequest{CityIDs: []int64{2}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, ts, http.MethodDelete, "/trips/"+id+"/cities/2", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = do(t, ts, http.MethodDelete, "/trips/"+id+"/cities/2", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = do(t, ts, http.MethodDelete, "/trips/"+id+"/cities/abc", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAddCityValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createTrip(t, ts)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing name", body: dto.AddCityRequest{ID: 1, Coordinates: []float64{0, 0}}},
		{name: "missing coordinates", body: dto.AddCityRequest{ID: 1, Name: "X"}},
		{name: "latitude out of range", body: dto.AddCityRequest{ID: 1, Name: "X", Coordinates: []float64{0, 91}}},
		{name: "short bbox", body: dto.AddCityRequest{ID: 1, Name: "X", Coordinates: []float64{0, 0}, BBox: []float64{1, 2}}},
		{name: "unknown field", body: map[string]any{"id": 1, "name": "X", "coordinates": []float64{0, 0}, "extra": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := do(t, ts, http.MethodPost, "/trips/"+id+"/cities", tt.body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestUnknownTrip(t *testing.T) {
	ts, _ := newTestServer(t)
	res, _ := do(t, ts, http.MethodGet, "/trips/nope", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPlanRequiresTwoCities(t *testing.T) {
	ts, mock := newTestServer(t)
	id := createTrip(t, ts)
	require.Equal(t, http.StatusCreated, addCity(t, ts, id, 1, "Lisbon", -9.14, 38.72).StatusCode)

	res, body := do(t, ts, http.MethodPost, "/trips/"+id+"/plan", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, string(body), "at least 2")
	assert.Zero(t, mock.DirectionsCalls())
}

func TestPlanRejectsUnknownCategory(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createTrip(t, ts)

	res, _ := do(t, ts, http.MethodPost, "/trips/"+id+"/plan", dto.PlanRequest{Category: "nightlife"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPlanValidTrip(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createTrip(t, ts)
	require.Equal(t, http.StatusCreated, addCity(t, ts, id, 1, "A", 0, 0).StatusCode)
	require.Equal(t, http.StatusCreated, addCity(t, ts, id, 2, "B", 0, 1).StatusCode)

	res, body := do(t, ts, http.MethodPost, "/trips/"+id+"/plan", dto.PlanRequest{Category: "food"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.True(t, plan.Valid)
	assert.False(t, plan.Loading)
	assert.Empty(t, plan.Warning)
	require.Len(t, plan.Routes, 1)
	assert.InDelta(t, 10, plan.DrivingMinutes, 1e-9)
	assert.Len(t, plan.Sections, 2)
}

func TestPlanInvalidTripWarns(t *testing.T) {
	ts, mock := newTestServer(t)
	mock.Unroutable[domain.Coordinates{Lon: 0, Lat: 1}.Key()] = true

	id := createTrip(t, ts)
	require.Equal(t, http.StatusCreated, addCity(t, ts, id, 1, "A", 0, 0).StatusCode)
	require.Equal(t, http.StatusCreated, addCity(t, ts, id, 2, "Island", 0, 1).StatusCode)

	res, body := do(t, ts, http.MethodPost, "/trips/"+id+"/plan", nil)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.False(t, plan.Valid)
	assert.Equal(t, "Please choose places closer to each other.", plan.Warning)
}

func TestSearchCities(t *testing.T) {
	ts, _ := newTestServer(t)

	res, body := do(t, ts, http.MethodGet, "/cities/search?q=lis", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out dto.CitySearchResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Cities, 1)
	assert.Equal(t, int64(101), out.Cities[0].ID)

	res, _ = do(t, ts, http.MethodGet, "/cities/search?q=l", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDescribePOI(t *testing.T) {
	ts, _ := newTestServer(t)

	res, body := do(t, ts, http.MethodGet, "/pois/Q42/description", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out dto.DescriptionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "About Q42.", out.Description)

	res, _ = do(t, ts, http.MethodGet, "/pois/42/description", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRemoveUnknownPOI(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createTrip(t, ts)

	res, _ := do(t, ts, http.MethodDelete, "/trips/"+id+"/pois/missing", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
