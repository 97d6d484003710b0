package ports

import (
	"context"
	"roadtrip-itinerary-service/internal/domain"
	"time"
)

type HotelProvider interface {
	// ResolveRegion maps a city name and country to the provider region id.
	ResolveRegion(ctx context.Context, name, country string) (string, error)
	// SearchHotels lists available hotels for a stay in the region.
	SearchHotels(ctx context.Context, regionID string, checkIn, checkOut time.Time) ([]domain.Hotel, error)
}
