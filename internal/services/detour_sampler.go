package services

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

const (
	// numSections splits a piece into equal steps; steps 1..numSections-2 are queried.
	numSections = 10
	// desiredPOICount is how many candidates a single sample hands back.
	desiredPOICount = 1

	detourQueryLimit   = 1
	detourRadiusMeters = 5000
)

// DetourSampler finds candidate detour stops near the straight line between
// two anchors.
type DetourSampler struct {
	Places ports.POIProvider

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDetourSampler builds a sampler. A nil rng uses a randomly seeded source.
func NewDetourSampler(places ports.POIProvider, rng *rand.Rand) *DetourSampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &DetourSampler{Places: places, rng: rng}
}

// interiorPoints returns the proximity anchors for one piece.
func interiorPoints(from, to domain.Coordinates) []domain.Coordinates {
	stepLon := (to.Lon - from.Lon) / numSections
	stepLat := (to.Lat - from.Lat) / numSections

	out := make([]domain.Coordinates, 0, numSections-2)
	for i := 1; i < numSections-1; i++ {
		out = append(out, domain.Coordinates{
			Lon: from.Lon + float64(i)*stepLon,
			Lat: from.Lat + float64(i)*stepLat,
		})
	}
	return out
}

// Sample queries Places around each interior point of from -> to and returns
// at most desiredPOICount candidates. Lodging, excluded keys, the two
// endpoints and duplicate coordinates are filtered out. A failed query
// contributes nothing.
func (s *DetourSampler) Sample(
	ctx context.Context,
	from, to domain.Coordinates,
	category domain.Category,
	excluded func(domain.CoordKey) bool,
) []domain.POI {
	points := interiorPoints(from, to)
	results := make([][]domain.POI, len(points))

	g, gctx := errgroup.WithContext(ctx)
	for i, pt := range points {
		g.Go(func() error {
			pois, err := s.Places.SearchPOIs(gctx, ports.POIQuery{
				Category:     category,
				Proximity:    &pt,
				Limit:        detourQueryLimit,
				RadiusMeters: detourRadiusMeters,
			})
			if err != nil {
				log.Warn().Err(err).Str("proximity", pt.Key().String()).Msg("detour search failed")
				return nil
			}
			results[i] = pois
			return nil
		})
	}
	_ = g.Wait()

	seen := map[domain.CoordKey]bool{
		from.Key(): true,
		to.Key():   true,
	}
	var candidates []domain.POI
	for _, batch := range results {
		for _, p := range batch {
			k := p.Key()
			if p.IsLodging() || seen[k] || (excluded != nil && excluded(k)) {
				continue
			}
			seen[k] = true
			candidates = append(candidates, p)
		}
	}

	if len(candidates) <= desiredPOICount {
		return candidates
	}
	return s.shuffle(candidates)[:desiredPOICount]
}

// shuffle returns a Fisher-Yates permutation of pois.
func (s *DetourSampler) shuffle(pois []domain.POI) []domain.POI {
	out := append([]domain.POI(nil), pois...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
