package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/subhashmahimaluri/panchangam/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /                        service description
//	GET  /health                  liveness and dependency health
//	POST /api/v1/panchangam       one-day almanac for a catalog city
//	POST /api/v1/periods          full Hindu-day period listing
//	GET  /api/v1/cities           supported city catalog
//	POST /api/v1/admin/locations  add or update a catalog city (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(CORS())

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/", handlers.Root)
	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/panchangam", handlers.GetPanchangam)
		r.Post("/periods", handlers.GetPeriods)
		r.Get("/cities", handlers.ListCities)

		// ======================================================================
		// Admin routes (API key only)
		// ======================================================================
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAPIKey(cfg, logger))
			r.Post("/locations", handlers.CreateLocation)
		})
	})

	return r
}
