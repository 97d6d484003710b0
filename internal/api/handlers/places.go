package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/api/dto"
	"roadtrip-itinerary-service/internal/ports"
	"roadtrip-itinerary-service/internal/services"
)

// PlaceHandler serves lookups that do not belong to a trip.
type PlaceHandler struct {
	Cities  ports.CitySearcher
	Planner *services.Planner
}

// SearchCities resolves free text to selectable destinations.
func (h *PlaceHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		writeError(w, r, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}
	if h.Cities == nil {
		writeError(w, r, http.StatusServiceUnavailable, "city search is not configured")
		return
	}

	cities, err := h.Cities.SearchCities(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("q", q).Msg("city search failed")
		writeError(w, r, http.StatusBadGateway, "city search failed")
		return
	}

	res := dto.CitySearchResponse{Cities: make([]dto.CityResponse, 0, len(cities))}
	for _, c := range cities {
		res.Cities = append(res.Cities, dto.NewCityResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Describe returns best-effort text for a POI; an empty description is not an error.
func (h *PlaceHandler) Describe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "wikidataID")
	if !strings.HasPrefix(id, "Q") {
		writeError(w, r, http.StatusBadRequest, "invalid wikidata id")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DescriptionResponse{
		WikidataID:  id,
		Description: h.Planner.Describe(r.Context(), id),
	})
}
