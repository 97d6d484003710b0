package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// CostMatrix returns pairwise road distances in meters. The diagonal is 0
// and unreachable pairs are +Inf.
func (o *ORSProvider) CostMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (_ [][]float64, err error) {
	defer obs.Time(ctx, "ors.CostMatrix")(&err)

	n := len(locations)
	if n == 0 {
		return [][]float64{}, nil
	}
	if n == 1 {
		return [][]float64{{0}}, nil
	}

	keys := make([]domain.CoordKey, n)
	for i, c := range locations {
		keys[i] = c.Key()
	}

	// Check persistent matrix cache before issuing external API calls.
	if o.matrixCache != nil {
		if m, ok := o.cachedMatrix(ctx, keys); ok {
			return m, nil
		}
	}

	m, err := o.fetchMatrix(ctx, locations)
	if err != nil {
		return nil, err
	}

	if o.matrixCache != nil {
		for i := range keys {
			row := make(map[domain.CoordKey]float64, n-1)
			for j := range keys {
				if i != j && !math.IsInf(m[i][j], 1) {
					row[keys[j]] = m[i][j]
				}
			}
			if err := o.matrixCache.PutMany(ctx, keys[i], row); err != nil {
				log.Warn().Err(err).Msg("matrix cache write failed")
				break
			}
		}
	}

	return m, nil
}

// cachedMatrix assembles the full matrix from cache rows, or reports a miss
// if any off-diagonal pair is absent.
func (o *ORSProvider) cachedMatrix(ctx context.Context, keys []domain.CoordKey) ([][]float64, bool) {
	n := len(keys)
	m := make([][]float64, n)
	for i := range keys {
		hits, err := o.matrixCache.GetMany(ctx, keys[i], keys)
		if err != nil {
			log.Warn().Err(err).Msg("matrix cache read failed")
			return nil, false
		}

		m[i] = make([]float64, n)
		for j := range keys {
			if keys[i] == keys[j] {
				continue
			}
			v, ok := hits[keys[j]]
			if !ok {
				return nil, false
			}
			m[i][j] = v
		}
	}
	return m, true
}

func (o *ORSProvider) fetchMatrix(ctx context.Context, locations []domain.Coordinates) ([][]float64, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	body := matrixRequest{
		Locations: make([][]float64, 0, len(locations)),
		Metrics:   []string{"distance"},
	}
	for _, c := range locations {
		body.Locations = append(body.Locations, c.CoordsToList())
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	var mr matrixResponse
	err = o.client.DoJSON(ctx, "matrix", func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	}, &mr)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}

	n := len(locations)
	if len(mr.Distances) != n {
		return nil, fmt.Errorf("expected %d matrix rows; got %d", n, len(mr.Distances))
	}

	out := make([][]float64, n)
	for i, row := range mr.Distances {
		if len(row) != n {
			return nil, fmt.Errorf("matrix row %d has %d columns, want %d", i, len(row), n)
		}
		out[i] = make([]float64, n)
		for j, v := range row {
			if v == nil {
				out[i][j] = math.Inf(1)
				continue
			}
			out[i][j] = *v
		}
	}

	return out, nil
}
