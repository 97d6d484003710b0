package services

import (
	"context"
	"fmt"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
)

const (
	// MinCityPOIs is both the collection target and the trimmed route length.
	MinCityPOIs = 5

	cityQueryLimit   = 10
	cityRadiusMeters = 15000
	maxCityQueries   = 10
)

// CityRoutePlanner builds the sightseeing sub-route for a single city.
type CityRoutePlanner struct {
	Places  ports.POIProvider
	Orderer RouteOrderer
}

// Plan collects up to MinCityPOIs unique POIs around city, skipping any key
// in excluded, and returns them in visiting order from the city centre.
//
// Collection stops once the target is reached or a query adds nothing new.
// A failed first query is returned as an error; later failures end
// collection with what has been gathered.
func (p CityRoutePlanner) Plan(
	ctx context.Context,
	city domain.City,
	category domain.Category,
	excluded map[domain.CoordKey]bool,
) (_ []domain.POI, err error) {
	defer obs.Time(ctx, "planner.CityRoute")(&err)

	q := ports.POIQuery{
		Category:     category,
		Limit:        cityQueryLimit,
		RadiusMeters: cityRadiusMeters,
	}
	if city.BBox != nil {
		bbox := *city.BBox
		q.BBox = &bbox
	} else {
		center := city.Coordinates
		q.Proximity = &center
	}

	seen := make(map[domain.CoordKey]bool)
	places := make([]domain.POI, 0, MinCityPOIs)

	for attempt := 0; len(places) < MinCityPOIs && attempt < maxCityQueries; attempt++ {
		found, err := p.Places.SearchPOIs(ctx, q)
		if err != nil {
			if attempt == 0 {
				return nil, fmt.Errorf("city route %s: %w", city.Name, err)
			}
			break
		}

		added := 0
		for _, poi := range found {
			k := poi.Key()
			if seen[k] || excluded[k] {
				continue
			}
			seen[k] = true
			poi.ParentCityID = city.ID
			places = append(places, poi)
			added++
		}
		if added == 0 {
			break
		}
	}

	if len(places) > MinCityPOIs {
		places = places[:MinCityPOIs]
	}
	return p.Orderer.Order(ctx, city.Coordinates, places), nil
}
