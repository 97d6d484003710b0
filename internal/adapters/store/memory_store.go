package store

import (
	"fmt"
	"sync"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

// MemoryStore is an in-memory ItineraryStore for one trip. All methods are
// safe for concurrent use; each call is applied atomically.
type MemoryStore struct {
	id string

	mu      sync.RWMutex
	cities  []domain.City
	pois    []domain.POI
	routes  []domain.RouteLeg
	valid   bool
	loading bool
}

func NewMemoryStore(tripID string) *MemoryStore {
	return &MemoryStore{id: tripID, valid: true}
}

func (s *MemoryStore) TripID() string { return s.id }

func (s *MemoryStore) cityIndex(id int64) int {
	for i, c := range s.cities {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddCity appends a destination. A city id may be selected only once.
func (s *MemoryStore) AddCity(city domain.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cityIndex(city.ID) >= 0 {
		return fmt.Errorf("add city %d: %w", city.ID, ports.ErrCityExists)
	}
	s.cities = append(s.cities, city.Clone())
	return nil
}

// RemoveCity deselects a city and drops the detour POIs it owns.
func (s *MemoryStore) RemoveCity(cityID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cityIndex(cityID)
	if i < 0 {
		return fmt.Errorf("remove city %d: %w", cityID, ports.ErrCityNotFound)
	}
	s.cities = append(s.cities[:i:i], s.cities[i+1:]...)

	kept := s.pois[:0:0]
	for _, p := range s.pois {
		if p.ParentCityID != cityID {
			kept = append(kept, p)
		}
	}
	s.pois = kept
	return nil
}

// ReorderCities sets the itinerary order. ids must be a permutation of the
// selected city ids.
func (s *MemoryStore) ReorderCities(ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.cities) {
		return fmt.Errorf("reorder cities: %w", ports.ErrInvalidOrder)
	}

	used := make(map[int64]bool, len(ids))
	out := make([]domain.City, 0, len(ids))
	for _, id := range ids {
		i := s.cityIndex(id)
		if i < 0 || used[id] {
			return fmt.Errorf("reorder cities: city %d: %w", id, ports.ErrInvalidOrder)
		}
		used[id] = true
		out = append(out, s.cities[i])
	}
	s.cities = out
	return nil
}

// UpdateCity replaces a selected city's record, keeping its position.
func (s *MemoryStore) UpdateCity(city domain.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cityIndex(city.ID)
	if i < 0 {
		return fmt.Errorf("update city %d: %w", city.ID, ports.ErrCityNotFound)
	}
	s.cities[i] = city.Clone()
	return nil
}

func (s *MemoryStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetPOIs publishes a planning result in one step.
func (s *MemoryStore) SetPOIs(pois []domain.POI, routes []domain.RouteLeg, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pois = append([]domain.POI(nil), pois...)
	s.routes = append([]domain.RouteLeg(nil), routes...)
	s.valid = valid
}

func (s *MemoryStore) ClearPOIs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pois = nil
	s.routes = nil
	s.valid = true
}

// RemovePOI drops a detour stop by id.
func (s *MemoryStore) RemovePOI(poiID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.pois {
		if p.ID == poiID {
			s.pois = append(s.pois[:i:i], s.pois[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove poi %q: %w", poiID, ports.ErrPOINotFound)
}

// ReorderPOIs reorders the detours owned by cityID. ids must list each of
// that city's POIs once; other cities' POIs keep their slots.
func (s *MemoryStore) ReorderPOIs(cityID int64, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var slots []int
	byID := make(map[string]domain.POI)
	for i, p := range s.pois {
		if p.ParentCityID == cityID {
			slots = append(slots, i)
			byID[p.ID] = p
		}
	}
	if len(ids) != len(slots) {
		return fmt.Errorf("reorder pois for city %d: %w", cityID, ports.ErrInvalidOrder)
	}

	ordered := make([]domain.POI, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder pois for city %d: poi %q: %w", cityID, id, ports.ErrInvalidOrder)
		}
		delete(byID, id)
		ordered = append(ordered, p)
	}

	pois := append([]domain.POI(nil), s.pois...)
	for n, slot := range slots {
		pois[slot] = ordered[n]
	}
	s.pois = pois
	return nil
}

// Snapshot returns a deep copy of the current itinerary.
func (s *MemoryStore) Snapshot() domain.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it := domain.Itinerary{
		Cities:  make([]domain.City, 0, len(s.cities)),
		POIs:    append([]domain.POI{}, s.pois...),
		Routes:  make([]domain.RouteLeg, 0, len(s.routes)),
		Valid:   s.valid,
		Loading: s.loading,
	}
	for _, c := range s.cities {
		it.Cities = append(it.Cities, c.Clone())
	}
	for _, r := range s.routes {
		r.Path = append([]domain.Coordinates(nil), r.Path...)
		if r.BBox != nil {
			b := *r.BBox
			r.BBox = &b
		}
		it.Routes = append(it.Routes, r)
		it.DrivingMinutes += r.DurationMinutes
	}
	return it
}
