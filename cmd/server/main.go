package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"roadtrip-itinerary-service/internal/adapters/cache"
	"roadtrip-itinerary-service/internal/adapters/distance"
	"roadtrip-itinerary-service/internal/adapters/events"
	"roadtrip-itinerary-service/internal/adapters/hotels"
	"roadtrip-itinerary-service/internal/adapters/mapbox"
	"roadtrip-itinerary-service/internal/adapters/repositories"
	"roadtrip-itinerary-service/internal/adapters/store"
	"roadtrip-itinerary-service/internal/adapters/wiki"
	"roadtrip-itinerary-service/internal/api"
	"roadtrip-itinerary-service/internal/config"
	"roadtrip-itinerary-service/internal/platform/db"
	"roadtrip-itinerary-service/internal/platform/httpclient"
	"roadtrip-itinerary-service/internal/platform/obs"
	"roadtrip-itinerary-service/internal/ports"
	"roadtrip-itinerary-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQL caches, ORS, Mapbox, hotels, Wikipedia,
// Redis, Kafka) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	log.Logger = obs.NewLogger(cfg.AppEnv)

	sqlDB, err := openCacheDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open cache database")
	}
	defer sqlDB.Close()

	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	// ORS provider uses persistent SQL caches to avoid repeated directions/matrix/geocode calls.
	ors, err := distance.NewORSProvider(
		distance.ORSConfig{APIKey: cfg.ORSKey, BaseURL: cfg.ORSBaseURL, Profile: cfg.ORSProfile},
		newClient(cfg, "ors"),
		cache.NewSQLDirectionsCache(sqlDB),
		cache.NewSQLMatrixCache(sqlDB),
		cache.NewSQLGeocodeCache(sqlDB),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("init ORS provider")
	}

	placesClient, err := mapbox.NewPlacesClient(cfg.MapboxToken, cfg.MapboxBase, newClient(cfg, "mapbox"))
	if err != nil {
		log.Fatal().Err(err).Msg("init Mapbox places client")
	}
	var places ports.POIProvider = placesClient

	var hotelProvider ports.HotelProvider
	if hc, err := hotels.New(cfg.HotelsKey, cfg.HotelsHost, cfg.HotelsBase, newClient(cfg, "hotels")); err != nil {
		log.Warn().Err(err).Msg("hotel suggestions disabled")
	} else {
		hotelProvider = hc
	}

	var descriptions ports.DescriptionProvider = wiki.New(cfg.WikidataURL, cfg.WikiURL, newClient(cfg, "wiki"))

	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, provider responses will not be cached")
		} else {
			places = &cache.CachedPOIProvider{Next: places, Cache: rc, TTL: cfg.CacheTTL}
			descriptions = &cache.CachedDescriptionProvider{Next: descriptions, Cache: rc, TTL: cfg.CacheTTL}
			if hotelProvider != nil {
				hotelProvider = &cache.CachedHotelProvider{Next: hotelProvider, Cache: rc, TTL: cfg.CacheTTL}
			}
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis response cache enabled")
		}
	}

	var publisher ports.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka events enabled")
	}

	orderer := services.RouteOrderer{Matrix: ors}
	planner := &services.Planner{
		Legs: services.LegPlanner{
			Expander: services.SegmentExpander{
				Directions: ors,
				Detours:    services.NewDetourSampler(places, nil),
			},
			Orderer:     orderer,
			Concurrency: cfg.LegConcurrency,
		},
		Cities:          services.CityRoutePlanner{Places: places, Orderer: orderer},
		Hotels:          services.HotelFinder{Provider: hotelProvider},
		Descriptions:    descriptions,
		Events:          publisher,
		CityConcurrency: cfg.CityConcurrency,
	}

	trips := store.NewRegistry()
	if cfg.SeedPath != "" {
		seedTrip(trips, cfg.SeedPath)
	}

	reg := obs.InitRegistry()
	deps := api.Deps{
		Trips:   trips,
		Planner: planner,
		Cities:  ors,
		Timeout: cfg.RequestTimeout,
	}
	if cfg.MetricsAddr == "" {
		deps.Metrics = obs.MetricsHandler(reg)
	} else {
		go serveMetrics(cfg.MetricsAddr, obs.MetricsHandler(reg))
	}

	// Timeouts are tuned for cold-cache planning; WriteTimeout must outlast REQUEST_TIMEOUT.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	log.Info().Msg("server stopped")
}

func newClient(cfg config.Config, service string) *httpclient.Client {
	return httpclient.New(httpclient.Options{
		Service:     service,
		RPS:         cfg.RequestsPerSecond,
		MaxAttempts: cfg.MaxAttempts,
		Timeout:     cfg.CallTimeout,
	})
}

func openCacheDB(cfg config.Config) (*sqlx.DB, error) {
	if cfg.DBDriver == "pgx" {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DB_DRIVER=pgx")
		}
		return db.Open("pgx", cfg.DatabaseURL)
	}
	return db.Open("sqlite", cfg.DBPath)
}

// seedTrip preloads a demo trip so the API has something to plan on first run.
func seedTrip(trips *store.Registry, path string) {
	cities, err := repositories.LoadCitySeed(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("skipping demo trip")
		return
	}

	s := trips.Create()
	for _, c := range cities {
		if err := s.AddCity(c); err != nil {
			log.Warn().Err(err).Int64("city_id", c.ID).Msg("seed city rejected")
		}
	}
	log.Info().Str("trip_id", s.TripID()).Int("cities", len(cities)).Msg("demo trip seeded")
}

func serveMetrics(addr string, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server")
	}
}
