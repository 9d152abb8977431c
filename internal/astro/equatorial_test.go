package astro

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestEclipticToEquatorialCardinalPoints(t *testing.T) {
	const eps = 23.4393

	tests := []struct {
		name    string
		lon     float64
		lat     float64
		wantRA  float64
		wantDec float64
	}{
		{name: "vernal point", lon: 0, lat: 0, wantRA: 0, wantDec: 0},
		{name: "summer solstice point", lon: 90, lat: 0, wantRA: 90, wantDec: eps},
		{name: "autumnal point", lon: 180, lat: 0, wantRA: 180, wantDec: 0},
		{name: "winter solstice point", lon: 270, lat: 0, wantRA: 270, wantDec: -eps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := EclipticToEquatorial(tt.lon, tt.lat, eps)
			if math.Abs(Norm180(ra-tt.wantRA)) > 1e-6 {
				t.Errorf("ra = %f, want %f", ra, tt.wantRA)
			}
			if math.Abs(dec-tt.wantDec) > 1e-6 {
				t.Errorf("dec = %f, want %f", dec, tt.wantDec)
			}
		})
	}
}

func TestEclipticToEquatorialWithLatitude(t *testing.T) {
	// A body north of the ecliptic at the vernal point keeps most of its
	// latitude as declination and is pulled slightly west in RA.
	ra, dec := EclipticToEquatorial(0, 5, 23.4393)
	if dec < 4 || dec > 5 {
		t.Errorf("dec = %f, want between 4 and 5", dec)
	}
	if ra < 350 {
		t.Errorf("ra = %f, want just below 360", ra)
	}
}

func TestAltitudeNoonOnEquator(t *testing.T) {
	p := NewMeeus()

	// Around the equinox the Sun stands near the zenith for an observer on
	// the equator at local solar noon. Scan midday and take the maximum so
	// the test does not depend on the equation of time.
	base := JulianDayFromTime(time.Date(2025, 3, 20, 11, 0, 0, 0, time.UTC))
	best := -90.0
	for m := 0; m <= 120; m++ {
		alt, err := Altitude(p, Sun, base.Add(float64(m)/1440), 0, 0)
		if err != nil {
			t.Fatalf("Altitude: %v", err)
		}
		if alt > best {
			best = alt
		}
	}

	if best < 89 {
		t.Errorf("peak altitude = %f, want above 89", best)
	}
}

func TestAltitudePolarDay(t *testing.T) {
	p := NewMeeus()

	// At 85N around the June solstice the Sun stays well above the horizon
	// through local midnight.
	jd := JulianDayFromTime(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC))
	alt, err := Altitude(p, Sun, jd, 85, 0)
	if err != nil {
		t.Fatalf("Altitude: %v", err)
	}
	if alt < 10 {
		t.Errorf("midnight sun altitude = %f, want above 10", alt)
	}
}

// brokenProvider fails every lookup, standing in for an unreachable
// ephemeris backend.
type brokenProvider struct{}

func (brokenProvider) SolarLongitude(JulianDay) (float64, error) {
	return 0, fmt.Errorf("solar longitude: %w", ErrUnavailable)
}
func (brokenProvider) LunarLongitude(JulianDay) (float64, error) {
	return 0, fmt.Errorf("lunar longitude: %w", ErrUnavailable)
}
func (brokenProvider) LunarLatitude(JulianDay) (float64, error) {
	return 0, fmt.Errorf("lunar latitude: %w", ErrUnavailable)
}
func (brokenProvider) Ayanamsa(JulianDay) (float64, error) {
	return 0, fmt.Errorf("ayanamsa: %w", ErrUnavailable)
}
func (brokenProvider) Obliquity(JulianDay) (float64, error) {
	return 0, fmt.Errorf("obliquity: %w", ErrUnavailable)
}
func (brokenProvider) SiderealTime(JulianDay) (float64, error) {
	return 0, fmt.Errorf("sidereal time: %w", ErrUnavailable)
}

func TestAltitudePropagatesProviderError(t *testing.T) {
	for _, b := range []Body{Sun, Moon} {
		_, err := Altitude(brokenProvider{}, b, 2451545.0, 12.97, 77.59)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("%v: error = %v, want ErrUnavailable", b, err)
		}
	}
}
