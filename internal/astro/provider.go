// Package astro computes apparent geocentric positions of the Sun and Moon
// and the derived quantities the panchangam engine needs: equatorial
// coordinates, sidereal time, and horizon altitude, all on the Julian Day
// timescale.
//
// Position lookups go through the Provider interface so the trigonometric
// series built into this package can be swapped for a higher precision
// ephemeris without touching any caller.
package astro

import "errors"

// ErrUnavailable is returned by providers that cannot produce a position at
// all, for example a remote ephemeris service that is down. Callers must
// propagate it rather than substitute a default position.
var ErrUnavailable = errors.New("astro: position provider unavailable")

// Body identifies which body a position query refers to.
type Body int

const (
	Sun Body = iota
	Moon
)

func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return "unknown"
	}
}

// Provider supplies raw ecliptic positions and timescale quantities.
// All angles are in degrees. Implementations must be safe for concurrent
// use; the HTTP handlers share one provider across requests.
type Provider interface {
	// SolarLongitude returns the Sun's apparent geocentric ecliptic
	// longitude, normalized to [0, 360).
	SolarLongitude(jd JulianDay) (float64, error)

	// LunarLongitude returns the Moon's apparent geocentric ecliptic
	// longitude, normalized to [0, 360).
	LunarLongitude(jd JulianDay) (float64, error)

	// LunarLatitude returns the Moon's ecliptic latitude. The Sun's
	// latitude is treated as zero everywhere and has no method.
	LunarLatitude(jd JulianDay) (float64, error)

	// Ayanamsa returns the Lahiri sidereal offset. Subtracting it from a
	// tropical longitude yields the sidereal longitude.
	Ayanamsa(jd JulianDay) (float64, error)

	// Obliquity returns the mean obliquity of the ecliptic.
	Obliquity(jd JulianDay) (float64, error)

	// SiderealTime returns Greenwich mean sidereal time in hours [0, 24).
	SiderealTime(jd JulianDay) (float64, error)
}
