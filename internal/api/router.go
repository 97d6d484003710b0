package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"roadtrip-itinerary-service/internal/api/handlers"
	"roadtrip-itinerary-service/internal/ports"
	"roadtrip-itinerary-service/internal/services"
)

type Deps struct {
	Trips   ports.TripRegistry
	Planner *services.Planner
	Cities  ports.CitySearcher
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
	Timeout time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Minute
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(requestContext)
	r.Use(chimw.Recoverer)
	r.Use(timeout(d.Timeout))
	r.Use(metrics)
	r.Use(logging(log.Logger))

	trips := &handlers.TripHandler{Trips: d.Trips}
	plans := &handlers.PlanHandler{Trips: d.Trips, Planner: d.Planner}
	places := &handlers.PlaceHandler{Cities: d.Cities, Planner: d.Planner}

	r.Get("/health", handlers.Health)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	r.Get("/cities/search", places.SearchCities)
	r.Get("/pois/{wikidataID}/description", places.Describe)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", trips.Create)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", trips.Get)
			r.Delete("/", trips.Delete)
			r.Post("/plan", plans.Plan)

			r.Post("/cities", trips.AddCity)
			r.Put("/cities/order", trips.ReorderCities)
			r.Delete("/cities/{cityID}", trips.RemoveCity)
			r.Put("/cities/{cityID}/pois/order", trips.ReorderPOIs)

			r.Delete("/pois/{poiID}", trips.RemovePOI)
		})
	})

	return r
}
