package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		BBox     []float64 `json:"bbox"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// Directions fetches the driving route from -> to as a GeoJSON line.
func (o *ORSProvider) Directions(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ domain.RouteLeg, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if o.directionsCache != nil {
		leg, ok, err := o.directionsCache.Get(ctx, from, to)
		if err != nil {
			log.Warn().Err(err).Msg("directions cache read failed")
		} else if ok {
			return leg, nil
		}
	}

	leg, err := o.fetchDirections(ctx, from, to)
	if err != nil {
		return domain.RouteLeg{}, err
	}

	if o.directionsCache != nil {
		if err := o.directionsCache.Put(ctx, leg); err != nil {
			log.Warn().Err(err).Msg("directions cache write failed")
		}
	}

	return leg, nil
}

func (o *ORSProvider) fetchDirections(
	ctx context.Context,
	from, to domain.Coordinates,
) (domain.RouteLeg, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("marshal directions request: %w", err)
	}

	var dr directionsResponse
	err = o.client.DoJSON(ctx, "directions", func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	}, &dr)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("directions request failed: %w", asNoRoute(err))
	}

	if len(dr.Features) == 0 {
		return domain.RouteLeg{}, fmt.Errorf("directions: %w: empty feature collection", ports.ErrNoRoute)
	}

	f := dr.Features[0]
	path := make([]domain.Coordinates, 0, len(f.Geometry.Coordinates))
	for _, pair := range f.Geometry.Coordinates {
		c, ok := domain.CoordsFromList(pair)
		if !ok {
			return domain.RouteLeg{}, fmt.Errorf("directions: invalid coordinate %v", pair)
		}
		path = append(path, c)
	}
	if len(path) < 2 {
		return domain.RouteLeg{}, fmt.Errorf("directions: %w: geometry has %d vertices", ports.ErrNoRoute, len(path))
	}

	// Snap the ends to the requested anchors so spliced legs share exact endpoints.
	path[0] = from
	path[len(path)-1] = to

	return domain.RouteLeg{
		Path:            path,
		DurationMinutes: f.Properties.Summary.Duration / 60,
		BBox:            bboxFrom2D(f.BBox),
	}, nil
}

// bboxFrom2D accepts ORS 2D ([4]) or 3D ([6]) bounding boxes.
func bboxFrom2D(v []float64) *domain.BBox {
	switch len(v) {
	case 4:
		return domain.BBoxFromList(v)
	case 6:
		return &domain.BBox{MinLon: v[0], MinLat: v[1], MaxLon: v[3], MaxLat: v[4]}
	}
	return nil
}
