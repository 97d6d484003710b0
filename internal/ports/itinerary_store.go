package ports

import (
	"context"
	"errors"
	"roadtrip-itinerary-service/internal/domain"
)

var (
	ErrTripNotFound = errors.New("trip not found")
	ErrCityExists   = errors.New("city already selected")
	ErrCityNotFound = errors.New("city not found")
	ErrInvalidOrder = errors.New("order must list every id exactly once")
	ErrPOINotFound  = errors.New("poi not found")
)

// ItineraryStore holds the observable state of one trip.
type ItineraryStore interface {
	TripID() string

	AddCity(city domain.City) error
	RemoveCity(cityID int64) error
	ReorderCities(ids []int64) error
	UpdateCity(city domain.City) error

	SetLoading(loading bool)
	SetPOIs(pois []domain.POI, routes []domain.RouteLeg, valid bool)
	ClearPOIs()
	RemovePOI(poiID string) error
	ReorderPOIs(cityID int64, ids []string) error

	Snapshot() domain.Itinerary
}

// TripRegistry creates and looks up per-trip stores.
type TripRegistry interface {
	Create() ItineraryStore
	Get(tripID string) (ItineraryStore, error)
	Delete(tripID string) error
}

// ItineraryPlanned is emitted after a planning run finishes.
type ItineraryPlanned struct {
	TripID    string
	Category  domain.Category
	Itinerary domain.Itinerary
}

type EventPublisher interface {
	PublishItineraryPlanned(ctx context.Context, ev ItineraryPlanned) error
}
