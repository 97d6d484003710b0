package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/ports"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeStoreError maps itinerary store failures to HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ports.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, "trip not found")
	case errors.Is(err, ports.ErrCityNotFound):
		writeError(w, r, http.StatusNotFound, "city not found")
	case errors.Is(err, ports.ErrPOINotFound):
		writeError(w, r, http.StatusNotFound, "poi not found")
	case errors.Is(err, ports.ErrCityExists):
		writeError(w, r, http.StatusConflict, "city already selected")
	case errors.Is(err, ports.ErrInvalidOrder):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("store operation failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// loadTrip resolves the {tripID} path parameter, writing 404 when unknown.
func loadTrip(w http.ResponseWriter, r *http.Request, trips ports.TripRegistry) (ports.ItineraryStore, bool) {
	s, err := trips.Get(chi.URLParam(r, "tripID"))
	if err != nil {
		writeStoreError(w, r, err)
		return nil, false
	}
	return s, true
}
