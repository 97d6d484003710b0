package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
)

// TripPlan is the merged result of every leg of a trip.
type TripPlan struct {
	POIs         []domain.POI
	Routes       []domain.RouteLeg
	Valid        bool
	TotalMinutes float64
}

// LegPlanner runs SegmentExpander across each consecutive city pair and
// merges the legs in itinerary order.
type LegPlanner struct {
	Expander SegmentExpander
	Orderer  RouteOrderer
	// Concurrency bounds legs planned at once. Values below 1 mean sequential.
	Concurrency int
}

// planLeg expands a -> b, tags detours with a's id and orders them from a.
func (p LegPlanner) planLeg(ctx context.Context, a, b domain.City, category domain.Category) (LegPlan, error) {
	plan, err := p.Expander.Expand(ctx, a.Coordinates, b.Coordinates, category)
	if err != nil {
		return LegPlan{}, fmt.Errorf("leg %s -> %s: %w", a.Name, b.Name, err)
	}

	for i := range plan.POIs {
		plan.POIs[i].ParentCityID = a.ID
	}
	plan.POIs = p.Orderer.Order(ctx, a.Coordinates, plan.POIs)
	return plan, nil
}

// Plan builds the trip-wide POI and route collections.
//
// A leg without a drivable connection marks the trip invalid. Legs after it
// are not merged and, when planning sequentially, are never started.
// Cancellation of ctx is returned as an error.
func (p LegPlanner) Plan(ctx context.Context, cities []domain.City, category domain.Category) (_ TripPlan, err error) {
	defer obs.Time(ctx, "planner.Legs")(&err)

	if len(cities) < 2 {
		return TripPlan{Valid: true, POIs: []domain.POI{}, Routes: []domain.RouteLeg{}}, nil
	}

	legs := len(cities) - 1
	plans := make([]LegPlan, legs)
	errs := make([]error, legs)

	limit := p.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < legs; i++ {
		g.Go(func() error {
			plans[i], errs[i] = p.planLeg(gctx, cities[i], cities[i+1], category)
			// Returning the error cancels legs still in flight.
			return errs[i]
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return TripPlan{}, err
	}

	out := TripPlan{Valid: true, POIs: []domain.POI{}, Routes: []domain.RouteLeg{}}
	for i := 0; i < legs; i++ {
		if errs[i] != nil {
			if !errors.Is(errs[i], ErrNoViableLeg) && !errors.Is(errs[i], context.Canceled) {
				log.Warn().Err(errs[i]).Msg("leg planning failed")
			}
			log.Info().Str("from", cities[i].Name).Str("to", cities[i+1].Name).Msg("trip has no viable route")
			obs.ObserveLeg(false, 0)
			out.Valid = false
			break
		}

		obs.ObserveLeg(true, len(plans[i].POIs))
		out.POIs = append(out.POIs, plans[i].POIs...)
		out.Routes = append(out.Routes, plans[i].Routes...)
		out.TotalMinutes += plans[i].TotalMinutes
	}

	return out, nil
}
