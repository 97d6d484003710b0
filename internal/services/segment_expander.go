package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

const (
	// MaxLegMinutes caps driving plus dwell time for one leg.
	MaxLegMinutes = 720.0
	// DwellMinutesPerPOI is the time budgeted at each accepted detour.
	DwellMinutesPerPOI = 60.0
	// MaxDetoursPerLeg bounds accepted stops; expansion runs while fewer are accepted.
	MaxDetoursPerLeg = 5
)

// ErrNoViableLeg means the two anchors of a leg cannot be connected by road.
var ErrNoViableLeg = errors.New("no viable leg")

// DetourSource yields detour candidates for one piece of a leg.
type DetourSource interface {
	Sample(ctx context.Context, from, to domain.Coordinates, category domain.Category, excluded func(domain.CoordKey) bool) []domain.POI
}

type poiStatus uint8

const (
	poiAccepted poiStatus = iota + 1
	poiRejected
)

type legPiece struct {
	from, to  domain.Coordinates
	leg       domain.RouteLeg
	exhausted bool
}

// SegmentExpansionState is the working set of one leg expansion.
// Pieces are kept in travel order. POIs not in status are pending.
type SegmentExpansionState struct {
	pieces   []legPiece
	accepted []domain.POI
	status   map[domain.CoordKey]poiStatus
}

func newSegmentExpansionState(from, to domain.Coordinates, leg domain.RouteLeg) *SegmentExpansionState {
	return &SegmentExpansionState{
		pieces: []legPiece{{from: from, to: to, leg: leg}},
		status: map[domain.CoordKey]poiStatus{},
	}
}

// TotalMinutes is driving time across all pieces plus dwell per accepted POI.
func (s *SegmentExpansionState) TotalMinutes() float64 {
	total := 0.0
	for _, p := range s.pieces {
		total += p.leg.DurationMinutes
	}
	return total + DwellMinutesPerPOI*float64(len(s.accepted))
}

// WithinBudget reports whether another detour may be attempted.
func (s *SegmentExpansionState) WithinBudget() bool {
	return s.TotalMinutes() <= MaxLegMinutes && len(s.accepted) < MaxDetoursPerLeg
}

// longestOpenPiece returns the index of the longest non-exhausted piece,
// first one on ties, or -1.
func (s *SegmentExpansionState) longestOpenPiece() int {
	best := -1
	for i, p := range s.pieces {
		if p.exhausted {
			continue
		}
		if best == -1 || p.leg.DurationMinutes > s.pieces[best].leg.DurationMinutes {
			best = i
		}
	}
	return best
}

func (s *SegmentExpansionState) exhaust(i int) { s.pieces[i].exhausted = true }

func (s *SegmentExpansionState) reject(p domain.POI) { s.status[p.Key()] = poiRejected }

// accept replaces piece i with the two sub-legs through p.
func (s *SegmentExpansionState) accept(i int, p domain.POI, first, second domain.RouteLeg) {
	old := s.pieces[i]
	split := []legPiece{
		{from: old.from, to: p.Coordinates, leg: first},
		{from: p.Coordinates, to: old.to, leg: second},
	}

	pieces := make([]legPiece, 0, len(s.pieces)+1)
	pieces = append(pieces, s.pieces[:i]...)
	pieces = append(pieces, split...)
	pieces = append(pieces, s.pieces[i+1:]...)
	s.pieces = pieces

	s.accepted = append(s.accepted, p)
	s.status[p.Key()] = poiAccepted
}

// Excluded reports whether a POI was already accepted or rejected.
func (s *SegmentExpansionState) Excluded(k domain.CoordKey) bool {
	_, ok := s.status[k]
	return ok
}

// Legs returns the pieces in travel order.
func (s *SegmentExpansionState) Legs() []domain.RouteLeg {
	out := make([]domain.RouteLeg, 0, len(s.pieces))
	for _, p := range s.pieces {
		out = append(out, p.leg)
	}
	return out
}

// Accepted returns detour POIs in insertion order.
func (s *SegmentExpansionState) Accepted() []domain.POI {
	return append([]domain.POI(nil), s.accepted...)
}

// LegPlan is the outcome of expanding one leg.
type LegPlan struct {
	Routes       []domain.RouteLeg
	POIs         []domain.POI
	TotalMinutes float64
}

// SegmentExpander grows a leg by splicing detour stops into its longest
// remaining piece until the time budget or detour cap is reached, or no
// piece yields a usable candidate.
type SegmentExpander struct {
	Directions ports.DirectionsProvider
	Detours    DetourSource
}

// Expand plans the leg from -> to. It fails with ErrNoViableLeg only when
// the anchors themselves cannot be connected.
func (e SegmentExpander) Expand(
	ctx context.Context,
	from, to domain.Coordinates,
	category domain.Category,
) (LegPlan, error) {
	initial, err := e.Directions.Directions(ctx, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return LegPlan{}, ctx.Err()
		}
		return LegPlan{}, fmt.Errorf("expand leg: %w: %w", ErrNoViableLeg, err)
	}

	state := newSegmentExpansionState(from, to, initial)

	for state.WithinBudget() {
		if err := ctx.Err(); err != nil {
			return LegPlan{}, err
		}

		i := state.longestOpenPiece()
		if i == -1 {
			break
		}
		piece := state.pieces[i]

		candidates := e.Detours.Sample(ctx, piece.from, piece.to, category, state.Excluded)
		if len(candidates) == 0 {
			state.exhaust(i)
			continue
		}
		poi := candidates[0]

		first, err := e.Directions.Directions(ctx, piece.from, poi.Coordinates)
		if err != nil {
			log.Debug().Err(err).Str("poi", poi.Name).Msg("detour rejected: no route to stop")
			state.reject(poi)
			continue
		}
		second, err := e.Directions.Directions(ctx, poi.Coordinates, piece.to)
		if err != nil {
			log.Debug().Err(err).Str("poi", poi.Name).Msg("detour rejected: no route from stop")
			state.reject(poi)
			continue
		}

		// A split that would overrun the budget is not a viable split.
		projected := state.TotalMinutes() - piece.leg.DurationMinutes +
			first.DurationMinutes + second.DurationMinutes + DwellMinutesPerPOI
		if projected > MaxLegMinutes {
			log.Debug().Float64("projected_min", projected).Str("poi", poi.Name).Msg("detour rejected: over budget")
			state.reject(poi)
			continue
		}

		state.accept(i, poi, first, second)
	}

	return LegPlan{
		Routes:       state.Legs(),
		POIs:         state.Accepted(),
		TotalMinutes: state.TotalMinutes(),
	}, nil
}
