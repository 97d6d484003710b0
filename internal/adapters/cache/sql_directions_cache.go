package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
)

// SQLDirectionsCache stores fetched route legs keyed by their endpoints.
type SQLDirectionsCache struct {
	DB *sqlx.DB
}

func NewSQLDirectionsCache(db *sqlx.DB) *SQLDirectionsCache {
	return &SQLDirectionsCache{DB: db}
}

type directionsRow struct {
	DurationMinutes float64        `db:"duration_minutes"`
	PathJSON        string         `db:"path_json"`
	BBoxJSON        sql.NullString `db:"bbox_json"`
}

func routeKey(from, to domain.Coordinates) string {
	return from.Key().String() + "->" + to.Key().String()
}

// Get returns the cached leg for from->to. ok is false on a miss.
func (s *SQLDirectionsCache) Get(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ domain.RouteLeg, ok bool, err error) {
	defer obs.Time(ctx, "directions.cache.Get")(&err)

	if s.DB == nil {
		return domain.RouteLeg{}, false, errors.New("directions cache: db is nil")
	}

	var row directionsRow
	err = s.DB.GetContext(ctx, &row, s.DB.Rebind(`
	SELECT duration_minutes, path_json, bbox_json
	FROM directions_cache
	WHERE route_key = ?;
	`), routeKey(from, to))
	if errors.Is(err, sql.ErrNoRows) {
		obs.ObserveCache("directions", "miss")
		return domain.RouteLeg{}, false, nil
	}
	if err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get directions cache: %w", err)
	}

	leg := domain.RouteLeg{DurationMinutes: row.DurationMinutes}
	if err := json.Unmarshal([]byte(row.PathJSON), &leg.Path); err != nil {
		return domain.RouteLeg{}, false, fmt.Errorf("get directions cache: decode path: %w", err)
	}
	if row.BBoxJSON.Valid && row.BBoxJSON.String != "" {
		var b domain.BBox
		if err := json.Unmarshal([]byte(row.BBoxJSON.String), &b); err != nil {
			return domain.RouteLeg{}, false, fmt.Errorf("get directions cache: decode bbox: %w", err)
		}
		leg.BBox = &b
	}

	obs.ObserveCache("directions", "hit")
	return leg, true, nil
}

// Put stores leg under its endpoints, replacing any previous entry.
func (s *SQLDirectionsCache) Put(ctx context.Context, leg domain.RouteLeg) error {
	if s.DB == nil {
		return errors.New("directions cache: db is nil")
	}
	if len(leg.Path) < 2 {
		return errors.New("insert directions cache: leg needs at least two vertices")
	}

	path, err := json.Marshal(leg.Path)
	if err != nil {
		return fmt.Errorf("insert directions cache: encode path: %w", err)
	}

	var bbox sql.NullString
	if leg.BBox != nil {
		b, err := json.Marshal(leg.BBox)
		if err != nil {
			return fmt.Errorf("insert directions cache: encode bbox: %w", err)
		}
		bbox = sql.NullString{String: string(b), Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, s.DB.Rebind(`
	INSERT INTO directions_cache (route_key, duration_minutes, path_json, bbox_json)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (route_key) DO UPDATE
	SET duration_minutes = excluded.duration_minutes,
		path_json = excluded.path_json,
		bbox_json = excluded.bbox_json;
	`), routeKey(leg.Start(), leg.End()), leg.DurationMinutes, string(path), bbox)
	if err != nil {
		return fmt.Errorf("insert directions cache: %w", err)
	}

	obs.ObserveCache("directions", "set")
	return nil
}
