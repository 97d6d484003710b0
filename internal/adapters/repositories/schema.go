package repositories

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// InitSchema creates the provider cache tables. The statements are valid
// for both Postgres and SQLite.
func InitSchema(db *sqlx.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDirectionsCacheQuery := `
	CREATE TABLE IF NOT EXISTS directions_cache (
		route_key TEXT PRIMARY KEY,
		duration_minutes DOUBLE PRECISION NOT NULL,
		path_json TEXT NOT NULL,
		bbox_json TEXT
	);
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_matrix_cache_destination_origin
	ON matrix_cache(destination, origin);
	`

	statements := []string{
		createDirectionsCacheQuery,
		createMatrixCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
