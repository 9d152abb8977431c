package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/cache"
	"github.com/subhashmahimaluri/panchangam/internal/config"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

const apiVersion = "1.0.0"

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	store  *store.Store
	cache  *cache.Cache
	engine *panchang.Engine
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, ca *cache.Cache, engine *panchang.Engine, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:  st,
		cache:  ca,
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Root handles GET /
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]interface{}{
		"service": "panchangam-api",
		"version": apiVersion,
		"endpoints": map[string]string{
			"panchangam": "POST /api/v1/panchangam",
			"periods":    "POST /api/v1/periods",
			"cities":     "GET /api/v1/cities",
			"health":     "GET /health",
		},
	})
}

// HealthCheck handles GET /health. The cache is optional, so an unreachable
// cache degrades the report without failing it.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	cacheStatus := "disabled"
	if h.cache.Enabled() {
		cacheStatus = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "unreachable"
		}
	}

	WriteSuccess(w, map[string]string{
		"status":   "healthy",
		"database": "connected",
		"cache":    cacheStatus,
	})
}

// GetPanchangam handles POST /api/v1/panchangam. The city supplies the
// display timezone; the request coordinates drive the computation.
func (h *Handlers) GetPanchangam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PanchangamRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	city, err := h.store.LookupCity(ctx, req.City)
	if err != nil {
		if store.IsNotFound(err) {
			WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("Unsupported city: %s. See /api/v1/cities for supported cities", req.City),
				"UNSUPPORTED_CITY")
			return
		}
		h.logger.Error("city lookup failed",
			slog.String("city", req.City),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to look up city")
		return
	}

	tz, err := time.LoadLocation(city.Timezone)
	if err != nil {
		h.logger.Error("catalog timezone is invalid",
			slog.String("city", city.Slug),
			slog.String("timezone", city.Timezone),
			slog.Any("error", err))
		WriteInternalError(w, "City timezone is misconfigured")
		return
	}

	key := cache.Key(req.Date, req.Latitude, req.Longitude)
	if raw, err := h.cache.Get(ctx, key); err == nil {
		WriteSuccess(w, json.RawMessage(raw))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	day, midnight, err := h.computeDay(date, tz, req.Latitude, req.Longitude)
	if err != nil {
		h.writeComputeError(w, req.Date, err)
		return
	}

	view := buildPanchangamView(day, city.Name, req.Latitude, req.Longitude, midnight, tz)
	if raw, err := json.Marshal(view); err == nil {
		h.cache.Set(ctx, key, raw)
	}

	WriteSuccess(w, view)
}

// GetPeriods handles POST /api/v1/periods. It lists every element period
// overlapping the Hindu day anchored on the requested date.
func (h *Handlers) GetPeriods(w http.ResponseWriter, r *http.Request) {
	var req PeriodsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	tzName := req.Timezone
	if tzName == "" {
		tzName = defaultTimezone
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Unknown timezone: %s", tzName))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	day, midnight, err := h.computeDay(date, tz, req.Latitude, req.Longitude)
	if err != nil {
		h.writeComputeError(w, req.Date, err)
		return
	}

	WriteSuccess(w, buildPeriodsView(day, req.Latitude, req.Longitude, midnight, tzName, tz))
}

// ListCities handles GET /api/v1/cities
func (h *Handlers) ListCities(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.ListLocations(r.Context())
	if err != nil {
		h.logger.Error("failed to list cities", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve cities")
		return
	}

	cities := make([]CityView, 0, len(locations))
	for _, l := range locations {
		cities = append(cities, CityView{
			Slug:      l.Slug,
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Timezone:  l.Timezone,
		})
	}

	WriteSuccess(w, map[string]interface{}{
		"cities": cities,
		"count":  len(cities),
	})
}

// CreateLocation handles POST /api/v1/admin/locations. It adds a city to the
// catalog, or updates one that already exists under the same slug.
func (h *Handlers) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	loc := store.Location{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timezone:  req.Timezone,
	}
	if err := h.store.UpsertLocation(r.Context(), loc); err != nil {
		h.logger.Error("failed to store location",
			slog.String("name", req.Name),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to store location")
		return
	}

	loc.Slug = store.Slugify(req.Name)
	h.logger.Info("location stored", slog.String("slug", loc.Slug))
	WriteCreated(w, loc)
}

// computeDay anchors the Hindu day at the first sunrise on the civil date and
// returns it along with local midnight, which the view builders use for the
// date and weekday.
func (h *Handlers) computeDay(date time.Time, tz *time.Location, lat, lon float64) (*panchang.Day, time.Time, error) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
	day, err := h.engine.BuildDay(astro.JulianDayFromTime(midnight), lat, lon)
	return day, midnight, err
}

func (h *Handlers) writeComputeError(w http.ResponseWriter, date string, err error) {
	switch {
	case errors.Is(err, panchang.ErrNoWindow):
		WriteError(w, http.StatusUnprocessableEntity,
			"No sunrise at this location on this date", "NO_SUNRISE")
	case errors.Is(err, astro.ErrUnavailable):
		WriteError(w, http.StatusServiceUnavailable,
			"Ephemeris unavailable", "EPHEMERIS_UNAVAILABLE")
	default:
		h.logger.Error("almanac computation failed",
			slog.String("date", date),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to compute panchangam")
	}
}
