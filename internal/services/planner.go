package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
)

// ErrTooFewCities is returned when fewer than two cities are selected.
var ErrTooFewCities = errors.New("at least 2 cities are required to plan a trip")

// Planner is the entry point for generating a trip itinerary.
type Planner struct {
	Legs   LegPlanner
	Cities CityRoutePlanner
	Hotels HotelFinder

	// Descriptions is optional best-effort enrichment.
	Descriptions ports.DescriptionProvider
	// Events is optional; a nil publisher skips notification.
	Events ports.EventPublisher

	// CityConcurrency bounds cities processed at once. Values below 1 mean sequential.
	CityConcurrency int
}

// Plan generates legs, city sub-routes and hotels for the cities currently
// in store and publishes the results back into it.
//
// Fewer than two cities is a no-op returning ErrTooFewCities: no provider is
// called and the store is untouched. An invalid trip is not an error; it is
// reported through the itinerary's Valid flag and city routes are skipped.
func (p Planner) Plan(ctx context.Context, store ports.ItineraryStore, category domain.Category) (_ domain.Itinerary, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	cities := store.Snapshot().Cities
	if len(cities) < 2 {
		return domain.Itinerary{}, ErrTooFewCities
	}

	store.SetLoading(true)
	defer store.SetLoading(false)

	trip, err := p.Legs.Plan(ctx, cities, category)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("plan legs: %w", err)
	}

	store.ClearPOIs()
	store.SetPOIs(trip.POIs, trip.Routes, trip.Valid)

	if trip.Valid {
		if err := p.planCities(ctx, store, cities, category, trip.POIs); err != nil {
			return domain.Itinerary{}, err
		}
	}

	store.SetLoading(false)
	it := store.Snapshot()

	if p.Events != nil {
		ev := ports.ItineraryPlanned{TripID: store.TripID(), Category: category, Itinerary: it}
		if err := p.Events.PublishItineraryPlanned(ctx, ev); err != nil {
			log.Warn().Err(err).Str("trip_id", store.TripID()).Msg("publish itinerary event failed")
		}
	}

	return it, nil
}

// planCities runs the city sub-route and hotel lookup for each city. Detour
// POIs are excluded from city routes.
func (p Planner) planCities(
	ctx context.Context,
	store ports.ItineraryStore,
	cities []domain.City,
	category domain.Category,
	detours []domain.POI,
) error {
	excluded := make(map[domain.CoordKey]bool, len(detours))
	for _, d := range detours {
		excluded[d.Key()] = true
	}

	limit := p.CityConcurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, city := range cities {
		g.Go(func() error {
			updated := city.Clone()

			// Route discovery and hotel lookup are independent of each other.
			var cg errgroup.Group
			cg.Go(func() error {
				route, err := p.Cities.Plan(gctx, city, category, excluded)
				if err != nil {
					log.Warn().Err(err).Str("city", city.Name).Msg("city route unavailable")
					route = nil
				}
				updated.Route = route
				return nil
			})
			cg.Go(func() error {
				if p.Hotels.Provider != nil {
					updated.Hotels = p.Hotels.Find(gctx, city)
				}
				return nil
			})
			_ = cg.Wait()

			if err := gctx.Err(); err != nil {
				return err
			}
			if err := store.UpdateCity(updated); err != nil {
				// The city was removed while planning.
				log.Info().Err(err).Int64("city_id", city.ID).Msg("skipping city update")
			}
			return nil
		})
	}
	return g.Wait()
}

// Describe returns the description for a POI, or "" when unavailable.
func (p Planner) Describe(ctx context.Context, wikidataID string) string {
	if p.Descriptions == nil || wikidataID == "" {
		return ""
	}
	text, err := p.Descriptions.Describe(ctx, wikidataID)
	if err != nil {
		log.Warn().Err(err).Str("wikidata_id", wikidataID).Msg("description lookup failed")
		return ""
	}
	return text
}
