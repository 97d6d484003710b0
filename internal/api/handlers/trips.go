package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"roadtrip-itinerary-service/internal/api/dto"
	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

// TripHandler manages the city and POI selections of a trip.
type TripHandler struct {
	Trips ports.TripRegistry
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Trips.Create()
	writeJSON(w, r, http.StatusCreated, dto.CreateTripResponse{TripID: s.TripID()})
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewItineraryResponse(s.TripID(), s.Snapshot()))
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Trips.Delete(chi.URLParam(r, "tripID")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) AddCity(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	var req dto.AddCityRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if req.ID == 0 || name == "" {
		writeError(w, r, http.StatusBadRequest, "id and name are required")
		return
	}
	coords, ok := domain.CoordsFromList(req.Coordinates)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "coordinates must be [lon, lat]")
		return
	}
	if coords.Lon < -180 || coords.Lon > 180 || coords.Lat < -90 || coords.Lat > 90 {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}
	if req.BBox != nil && len(req.BBox) != 4 {
		writeError(w, r, http.StatusBadRequest, "bbox must be [minLon, minLat, maxLon, maxLat]")
		return
	}

	city := domain.City{
		ID:          req.ID,
		Name:        name,
		Country:     strings.TrimSpace(req.Country),
		State:       strings.TrimSpace(req.State),
		Coordinates: coords,
		BBox:        domain.BBoxFromList(req.BBox),
	}
	if err := s.AddCity(city); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewItineraryResponse(s.TripID(), s.Snapshot()))
}

func (h *TripHandler) RemoveCity(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "cityID"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid city id")
		return
	}
	if err := s.RemoveCity(id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewItineraryResponse(s.TripID(), s.Snapshot()))
}

func (h *TripHandler) ReorderCities(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	var req dto.ReorderCitiesRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if err := s.ReorderCities(req.CityIDs); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewItineraryResponse(s.TripID(), s.Snapshot()))
}

func (h *TripHandler) RemovePOI(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	if err := s.RemovePOI(chi.URLParam(r, "poiID")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewItineraryResponse(s.TripID(), s.Snapshot()))
}

func (h *TripHandler) ReorderPOIs(w http.ResponseWriter, r *http.Request) {
	s, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	cityID, err := strconv.ParseInt(chi.URLParam(r, "cityID"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid city id")
		return
	}

	var req dto.ReorderPOIsRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if err := s.ReorderPOIs(cityID, req.POIIDs); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewItineraryResponse(s.TripID(), s.Snapshot()))
}
