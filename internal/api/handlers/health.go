package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

// Health is the liveness probe. It never touches providers.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "roadtrip-itinerary",
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
