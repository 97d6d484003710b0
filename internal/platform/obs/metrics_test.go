package obs_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roadtrip-itinerary-service/internal/platform/obs"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := obs.InitRegistry()

	obs.ObserveHTTP("/trips/{tripID}", "GET", 200, 12*time.Millisecond)
	obs.ObserveExternal("ors", "directions", 200, 30*time.Millisecond)
	obs.ObserveLeg(true, 3)

	mh := obs.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"roadtrip_http_requests_total",
		"roadtrip_external_requests_total",
		"roadtrip_planned_legs_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}
