// Package panchang computes the Hindu almanac: rise and set events, the
// sunrise-anchored Hindu day, the four angle-driven elements (tithi,
// nakshatra, yoga, karana) with every period touching the day, and the
// traditional muhurta windows.
//
// All instants are Julian Days in UT. Callers convert to civil time in
// whatever zone they present.
package panchang

import (
	"log/slog"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

// AngleFunc returns a cyclic angle in degrees at a given instant. The
// engine's tracker methods below all satisfy it.
type AngleFunc func(jd astro.JulianDay) (float64, error)

// Engine derives almanac quantities from a position provider. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	provider astro.Provider
	logger   *slog.Logger
}

// NewEngine returns an engine backed by the given provider. A nil logger
// falls back to slog's default.
func NewEngine(p astro.Provider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{provider: p, logger: logger}
}

// LunarPhase returns the elongation of the Moon from the Sun in [0, 360):
// 0 at new moon, 180 at full moon. Tithi and karana divide this angle.
func (e *Engine) LunarPhase(jd astro.JulianDay) (float64, error) {
	sun, err := e.provider.SolarLongitude(jd)
	if err != nil {
		return 0, err
	}
	moon, err := e.provider.LunarLongitude(jd)
	if err != nil {
		return 0, err
	}
	return astro.Norm360(moon - sun), nil
}

// SiderealLunarLongitude returns the Moon's longitude measured against the
// fixed stars. Nakshatra divides this angle.
func (e *Engine) SiderealLunarLongitude(jd astro.JulianDay) (float64, error) {
	moon, err := e.provider.LunarLongitude(jd)
	if err != nil {
		return 0, err
	}
	aya, err := e.provider.Ayanamsa(jd)
	if err != nil {
		return 0, err
	}
	return astro.Norm360(moon - aya), nil
}

// SiderealSolarLongitude returns the Sun's longitude measured against the
// fixed stars.
func (e *Engine) SiderealSolarLongitude(jd astro.JulianDay) (float64, error) {
	sun, err := e.provider.SolarLongitude(jd)
	if err != nil {
		return 0, err
	}
	aya, err := e.provider.Ayanamsa(jd)
	if err != nil {
		return 0, err
	}
	return astro.Norm360(sun - aya), nil
}

// CombinationAngle returns the sum of the sidereal longitudes of Moon and
// Sun in [0, 360). Yoga divides this angle.
func (e *Engine) CombinationAngle(jd astro.JulianDay) (float64, error) {
	moon, err := e.SiderealLunarLongitude(jd)
	if err != nil {
		return 0, err
	}
	sun, err := e.SiderealSolarLongitude(jd)
	if err != nil {
		return 0, err
	}
	return astro.Norm360(moon + sun), nil
}

// angleFor returns the tracker that drives the given category.
func (e *Engine) angleFor(c Category) AngleFunc {
	switch c {
	case Nakshatra:
		return e.SiderealLunarLongitude
	case Yoga:
		return e.CombinationAngle
	default:
		// Tithi and karana both divide the lunar phase.
		return e.LunarPhase
	}
}
