package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
)

// maxHotelCandidates is how many recommended listings are considered.
const maxHotelCandidates = 10

// SelectHotels picks a cheap, median and expensive option from the
// provider's recommended order.
//
// With more than two candidates the median is the element at floor(n/2) of
// the ascending prices. Each pick maps back to the first candidate carrying
// that price, so equal prices may yield the same hotel twice.
// One or two candidates are returned as-is; none yields nil.
func SelectHotels(candidates []domain.Hotel) []domain.Hotel {
	if len(candidates) > maxHotelCandidates {
		candidates = candidates[:maxHotelCandidates]
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= 2 {
		return append([]domain.Hotel(nil), candidates...)
	}

	prices := make([]float64, len(candidates))
	for i, h := range candidates {
		prices[i] = h.Price()
	}
	sorted := slices.Clone(prices)
	slices.Sort(sorted)

	pick := func(price float64) domain.Hotel {
		return candidates[slices.Index(prices, price)]
	}

	return []domain.Hotel{
		pick(sorted[0]),
		pick(sorted[len(sorted)/2]),
		pick(sorted[len(sorted)-1]),
	}
}

// HotelFinder resolves a city's region and selects hotels for one night
// starting today (UTC).
type HotelFinder struct {
	Provider ports.HotelProvider
	Now      func() time.Time
}

func (f HotelFinder) stayDates() (time.Time, time.Time) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	t := now().UTC()
	in := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return in, in.AddDate(0, 0, 1)
}

// Find returns the selected hotels for city, or nil when the region is
// unknown, the search fails, or nothing is available.
func (f HotelFinder) Find(ctx context.Context, city domain.City) []domain.Hotel {
	hotels, err := f.find(ctx, city)
	if err != nil {
		log.Warn().Err(err).Str("city", city.Name).Msg("hotel lookup failed")
		return nil
	}
	return SelectHotels(hotels)
}

func (f HotelFinder) find(ctx context.Context, city domain.City) (_ []domain.Hotel, err error) {
	defer obs.Time(ctx, "planner.Hotels")(&err)

	regionID, err := f.Provider.ResolveRegion(ctx, city.Name, city.Country)
	if err != nil {
		return nil, fmt.Errorf("resolve region: %w", err)
	}

	in, out := f.stayDates()
	hotels, err := f.Provider.SearchHotels(ctx, regionID, in, out)
	if err != nil {
		return nil, fmt.Errorf("search hotels in %s: %w", regionID, err)
	}
	return hotels, nil
}
