package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"roadtrip-itinerary-service/internal/domain"
	"roadtrip-itinerary-service/internal/platform/obs"
)

// SQLGeocodeCache is a SQL-backed cache mapping normalized city queries
// to their geocoded candidates.
type SQLGeocodeCache struct {
	DB *sqlx.DB
}

func NewSQLGeocodeCache(db *sqlx.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// NormalizeQuery collapses whitespace and case so equivalent searches share a row.
func NormalizeQuery(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Get returns cached candidates for query. ok is false on a miss.
func (s *SQLGeocodeCache) Get(ctx context.Context, query string) (_ []domain.City, ok bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}

	query = NormalizeQuery(query)
	if query == "" {
		return nil, false, nil
	}

	var payload string
	err = s.DB.GetContext(ctx, &payload, s.DB.Rebind(`
	SELECT payload FROM geocode_cache WHERE query = ?;
	`), query)
	if errors.Is(err, sql.ErrNoRows) {
		obs.ObserveCache("geocode", "miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: %w", err)
	}

	var cities []domain.City
	if err := json.Unmarshal([]byte(payload), &cities); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode payload: %w", err)
	}

	obs.ObserveCache("geocode", "hit")
	return cities, true, nil
}

// Put stores the candidates for query.
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, cities []domain.City) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = NormalizeQuery(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query")
	}

	payload, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode payload: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, s.DB.Rebind(`
	INSERT INTO geocode_cache (query, payload)
	VALUES (?, ?)
	ON CONFLICT (query) DO UPDATE
	SET payload = excluded.payload;
	`), query, string(payload))
	if err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}

	obs.ObserveCache("geocode", "set")
	return nil
}
