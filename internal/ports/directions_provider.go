package ports

import (
	"context"
	"errors"
	"roadtrip-itinerary-service/internal/domain"
)

// ErrNoRoute is returned when the router cannot connect two points.
var ErrNoRoute = errors.New("no drivable route")

// DirectionsProvider fetches a drivable route between two points.
type DirectionsProvider interface {
	Directions(ctx context.Context, from, to domain.Coordinates) (domain.RouteLeg, error)
}
