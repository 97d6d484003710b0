package store

import (
	"sync"

	"github.com/google/uuid"

	"roadtrip-itinerary-service/internal/ports"
)

// Registry keeps one MemoryStore per trip id.
type Registry struct {
	mu    sync.RWMutex
	trips map[string]*MemoryStore
}

func NewRegistry() *Registry {
	return &Registry{trips: make(map[string]*MemoryStore)}
}

// Create starts an empty trip under a fresh id.
func (r *Registry) Create() ports.ItineraryStore {
	s := NewMemoryStore(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[s.TripID()] = s
	return s
}

func (r *Registry) Get(tripID string) (ports.ItineraryStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.trips[tripID]
	if !ok {
		return nil, ports.ErrTripNotFound
	}
	return s, nil
}

func (r *Registry) Delete(tripID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[tripID]; !ok {
		return ports.ErrTripNotFound
	}
	delete(r.trips, tripID)
	return nil
}
