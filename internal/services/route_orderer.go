package services

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/ports"
)

// NearestNeighborOrder converts a square cost matrix into a visiting order.
//
// Traversal always starts at index 0 and greedily moves to the cheapest
// unvisited index. Ties go to the lowest index (scan order). The result is a
// permutation of 1..N-1; index 0 is not included.
// It does not attempt global optimization (no 2-opt, no backtracking).
func NearestNeighborOrder(matrix [][]float64) []int {
	n := len(matrix)
	for _, row := range matrix {
		if len(row) != n {
			return []int{}
		}
	}
	if n <= 1 {
		return []int{}
	}

	visited := make([]bool, n)
	visited[0] = true
	order := make([]int, 0, n-1)

	current := 0
	for len(order) < n-1 {
		best := -1
		bestCost := math.Inf(1)
		for j := 1; j < n; j++ {
			if visited[j] {
				continue
			}
			cost := matrix[current][j]
			if math.IsNaN(cost) {
				cost = math.Inf(1)
			}
			// First unvisited seeds the pick so +Inf rows still produce a full permutation.
			if best == -1 || cost < bestCost {
				best = j
				bestCost = cost
			}
		}

		visited[best] = true
		order = append(order, best)
		current = best
	}

	return order
}

// RouteOrderer reorders POIs into a nearest-neighbor visiting sequence from
// a fixed origin using road distances.
type RouteOrderer struct {
	Matrix ports.DistanceMatrixProvider
}

// Order returns pois in visiting order starting from origin. When the
// matrix cannot be fetched the input order is returned unchanged.
func (o RouteOrderer) Order(ctx context.Context, origin domain.Coordinates, pois []domain.POI) []domain.POI {
	out := append([]domain.POI(nil), pois...)
	if len(pois) < 2 || o.Matrix == nil {
		return out
	}

	locations := make([]domain.Coordinates, 0, len(pois)+1)
	locations = append(locations, origin)
	for _, p := range pois {
		locations = append(locations, p.Coordinates)
	}

	matrix, err := o.Matrix.CostMatrix(ctx, locations)
	if err != nil {
		log.Warn().Err(err).Int("pois", len(pois)).Msg("distance matrix unavailable; keeping discovery order")
		return out
	}
	if len(matrix) != len(locations) {
		log.Warn().Int("rows", len(matrix)).Int("want", len(locations)).Msg("distance matrix has wrong shape; keeping discovery order")
		return out
	}

	order := NearestNeighborOrder(matrix)
	if len(order) != len(pois) {
		log.Warn().Int("want", len(pois)).Int("got", len(order)).Msg("distance matrix is not square; keeping discovery order")
		return out
	}

	for i, idx := range order {
		out[i] = pois[idx-1]
	}
	return out
}
