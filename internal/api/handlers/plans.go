package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/api/dto"
	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
	"roadtrip-itinerary-service/internal/services"
)

const (
	msgTooFewCities = "Please enter at least 2 places to start planning."
	msgInvalidRoute = "Please choose places closer to each other."
)

type PlanHandler struct {
	Trips   ports.TripRegistry
	Planner *services.Planner
}

// Plan runs the itinerary engine for a trip and returns the published
// itinerary. An unreachable leg yields 422 with the partial itinerary.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	var req dto.PlanRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	category, ok := domain.ParseCategory(req.Category)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "category must be one of general, food, sightseeing, museum")
		return
	}

	if s.Snapshot().Loading {
		writeError(w, r, http.StatusConflict, "planning already in progress")
		return
	}

	it, err := h.Planner.Plan(r.Context(), s, category)
	switch {
	case errors.Is(err, services.ErrTooFewCities):
		writeError(w, r, http.StatusBadRequest, msgTooFewCities)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "planning cancelled")
		return
	case err != nil:
		log.Error().Err(err).Str("trip_id", s.TripID()).Msg("plan itinerary failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PlanResponse{ItineraryResponse: dto.NewItineraryResponse(s.TripID(), it)}
	if !it.Valid {
		res.Warning = msgInvalidRoute
		writeJSON(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
