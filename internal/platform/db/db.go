package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

func init() {
	// modernc.org/sqlite registers as "sqlite"; pin its bindvar style.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the cache database. driver is "pgx" (DATABASE_URL)
// or "sqlite" (file path). Callers import the driver package.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	switch driver {
	case "sqlite":
		// A single writer avoids SQLITE_BUSY under concurrent cache writes.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return db, nil
}
