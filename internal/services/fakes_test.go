package services

import (
	"context"
	"sync"
	"time"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

// fakePlaces answers SearchPOIs from a function and records every query.
type fakePlaces struct {
	mu      sync.Mutex
	queries []ports.POIQuery
	respond func(call int, q ports.POIQuery) ([]domain.POI, error)
}

func (f *fakePlaces) SearchPOIs(_ context.Context, q ports.POIQuery) ([]domain.POI, error) {
	f.mu.Lock()
	call := len(f.queries)
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.respond == nil {
		return nil, nil
	}
	return f.respond(call, q)
}

func (f *fakePlaces) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakePlaces) recorded() []ports.POIQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.POIQuery(nil), f.queries...)
}

type fakeHotels struct {
	mu        sync.Mutex
	region    string
	regionErr error
	hotels    []domain.Hotel
	searchErr error
	checkIns  []time.Time
}

func (f *fakeHotels) ResolveRegion(_ context.Context, _, _ string) (string, error) {
	return f.region, f.regionErr
}

func (f *fakeHotels) SearchHotels(_ context.Context, _ string, in, _ time.Time) ([]domain.Hotel, error) {
	f.mu.Lock()
	f.checkIns = append(f.checkIns, in)
	f.mu.Unlock()
	return f.hotels, f.searchErr
}

type fakeEvents struct {
	mu     sync.Mutex
	events []ports.ItineraryPlanned
}

func (f *fakeEvents) PublishItineraryPlanned(_ context.Context, ev ports.ItineraryPlanned) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

type fakeDescriptions map[string]string

func (f fakeDescriptions) Describe(_ context.Context, id string) (string, error) {
	text, ok := f[id]
	if !ok {
		return "", context.DeadlineExceeded
	}
	return text, nil
}

func at(lon, lat float64) domain.Coordinates { return domain.Coordinates{Lon: lon, Lat: lat} }

func poiAt(id string, lon, lat float64) domain.POI {
	return domain.POI{ID: id, Name: id, Category: "tourism", Coordinates: at(lon, lat)}
}
