package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
)

// SQLMatrixCache is a SQL-backed cache for origin->destination road distances.
// Keys are coordinate keys, so lookups are exact.
type SQLMatrixCache struct {
	DB *sqlx.DB
}

func NewSQLMatrixCache(db *sqlx.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

type matrixRow struct {
	Destination    string  `db:"destination"`
	DistanceMeters float64 `db:"distance_meters"`
}

// GetMany fetches cached distances for one origin and multiple destinations.
func (s *SQLMatrixCache) GetMany(
	ctx context.Context,
	origin domain.CoordKey,
	destinations []domain.CoordKey,
) (_ map[domain.CoordKey]float64, err error) {
	defer obs.Time(ctx, "matrix.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("matrix cache: db is nil")
	}

	if len(destinations) == 0 {
		return map[domain.CoordKey]float64{}, nil
	}

	byString := make(map[string]domain.CoordKey, len(destinations))
	uniq := make([]string, 0, len(destinations))
	for _, d := range destinations {
		k := d.String()
		if _, ok := byString[k]; ok {
			continue
		}
		byString[k] = d
		uniq = append(uniq, k)
	}

	q, args, err := sqlx.In(`
	SELECT destination, distance_meters
	FROM matrix_cache
	WHERE origin = ?
		AND destination IN (?);
	`, origin.String(), uniq)
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: expand query: %w", err)
	}

	var rows []matrixRow
	if err := s.DB.SelectContext(ctx, &rows, s.DB.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	out := make(map[domain.CoordKey]float64, len(rows))
	for _, r := range rows {
		if k, ok := byString[r.Destination]; ok {
			out[k] = r.DistanceMeters
		}
	}

	return out, nil
}

// PutMany stores distances for a single origin.
func (s *SQLMatrixCache) PutMany(
	ctx context.Context,
	origin domain.CoordKey,
	results map[domain.CoordKey]float64,
) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert matrix cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
	INSERT INTO matrix_cache (origin, destination, distance_meters)
	VALUES (?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = excluded.distance_meters;
	`))
	if err != nil {
		return fmt.Errorf("insert matrix cache: db prepare: %w", err)
	}
	defer stmt.Close()

	o := origin.String()
	for dest, meters := range results {
		if _, err := stmt.ExecContext(ctx, o, dest.String(), meters); err != nil {
			return fmt.Errorf("insert matrix cache dest=%q: %w", dest.String(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert matrix cache commit: %w", err)
	}

	return nil
}
