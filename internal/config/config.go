package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	Port        string
	MetricsAddr string
	SeedPath    string

	RequestTimeout time.Duration

	DBDriver    string
	DBPath      string
	DatabaseURL string

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ORSKey      string
	ORSBaseURL  string
	ORSProfile  string
	MapboxToken string
	MapboxBase  string
	HotelsKey   string
	HotelsHost  string
	HotelsBase  string
	WikidataURL string
	WikiURL     string

	RequestsPerSecond int
	MaxAttempts       int
	CallTimeout       time.Duration
	LegConcurrency    int
	CityConcurrency   int
}

// LoadDotEnv reads .env when present. Missing files are not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	c := Config{
		AppEnv:      Get("APP_ENV", "prod"),
		Port:        Get("PORT", "8080"),
		MetricsAddr: Get("METRICS_ADDR", ""),
		SeedPath:    Get("SEED_PATH", ""),

		RequestTimeout: Duration("REQUEST_TIMEOUT", 2*time.Minute),

		DBDriver:    Get("DB_DRIVER", "sqlite"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),

		RedisAddr: Get("REDIS_ADDR", ""),
		RedisPass: Get("REDIS_PASSWORD", ""),
		RedisDB:   Int("REDIS_DB", 0),
		CacheTTL:  Duration("CACHE_TTL", 6*time.Hour),

		KafkaBrokers: List("KAFKA_BROKERS"),
		KafkaTopic:   Get("KAFKA_TOPIC", "itinerary.events"),

		ORSKey:      Get("ORS_API_KEY", ""),
		ORSBaseURL:  Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSProfile:  Get("ORS_PROFILE", "driving-car"),
		MapboxToken: Get("MAPBOX_TOKEN", ""),
		MapboxBase:  Get("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		HotelsKey:   Get("HOTELS_API_KEY", ""),
		HotelsHost:  Get("HOTELS_API_HOST", "hotels-com-provider.p.rapidapi.com"),
		HotelsBase:  Get("HOTELS_BASE_URL", "https://hotels-com-provider.p.rapidapi.com"),
		WikidataURL: Get("WIKIDATA_URL", "https://www.wikidata.org/w/api.php"),
		WikiURL:     Get("WIKIPEDIA_URL", "https://en.wikipedia.org/w/api.php"),

		RequestsPerSecond: Int("PROVIDER_RPS", 5),
		MaxAttempts:       Int("PROVIDER_MAX_ATTEMPTS", 4),
		CallTimeout:       Duration("PROVIDER_TIMEOUT", 10*time.Second),
		LegConcurrency:    Int("LEG_CONCURRENCY", 1),
		CityConcurrency:   Int("CITY_CONCURRENCY", 4),
	}

	if c.ORSKey == "" {
		log.Warn().Msg("ORS_API_KEY is empty")
	}
	if c.MapboxToken == "" {
		log.Warn().Msg("MAPBOX_TOKEN is empty")
	}
	return c
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Int(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
	}
	return fallback
}

// Duration accepts Go duration strings ("15s") or plain seconds.
func Duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
	return fallback
}

// List splits a comma separated variable, dropping blanks.
func List(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
