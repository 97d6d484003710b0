package main

import (
	"flag"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"roadtrip-itinerary-service/internal/adapters/repositories"
	"roadtrip-itinerary-service/internal/config"
	"roadtrip-itinerary-service/internal/platform/db"
	"roadtrip-itinerary-service/internal/platform/obs"
)

// dbtool prepares the provider cache database and checks a demo trip file
// before the server is deployed against it.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	log.Logger = obs.NewLogger(cfg.AppEnv)

	seedPath := flag.String("seed", cfg.SeedPath, "demo trip JSON to validate (optional)")
	flag.Parse()

	driver, dsn := "sqlite", cfg.DBPath
	if cfg.DBDriver == "pgx" {
		if cfg.DatabaseURL == "" {
			log.Fatal().Msg("DATABASE_URL is required when DB_DRIVER=pgx")
		}
		driver, dsn = "pgx", cfg.DatabaseURL
	}

	sqlDB, err := db.Open(driver, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer sqlDB.Close()

	log.Info().Str("driver", driver).Msg("initializing cache schema")
	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("schema ready")

	if *seedPath == "" {
		return
	}
	cities, err := repositories.LoadCitySeed(*seedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("seed validation failed")
	}
	log.Info().Str("path", *seedPath).Int("cities", len(cities)).Msg("seed file valid")
}
