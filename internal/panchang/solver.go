package panchang

import (
	"math"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

// Altitude thresholds for rise and set events, in degrees. The Sun counts
// as risen when its center stands 0.833 degrees below the geometric
// horizon, which folds standard refraction and the solar semidiameter into
// a single constant. Lunar events use the geometric horizon.
const (
	SunriseAltitude = -0.833
	MoonAltitude    = 0.0
)

// Scan parameters, in days. Solar events repeat daily, so one day of
// 3 minute steps brackets them; lunar events drift almost an hour per day
// and can straddle a civil date, so the Moon gets two days of 10 minute
// steps.
const (
	solarScanSpan = 1.0
	solarScanStep = 3.0 / 1440
	lunarScanSpan = 2.0
	lunarScanStep = 10.0 / 1440
)

// Bisection stops once the bracket shrinks to a second, or after a fixed
// iteration cap when it cannot.
const (
	bisectTolerance = 1.0 / 86400
	bisectMaxSteps  = 20
)

// AltitudeFunc returns a body's altitude above the horizon in degrees at a
// given instant.
type AltitudeFunc func(jd astro.JulianDay) (float64, error)

// FindCrossing scans forward from start for the first instant the altitude
// crosses thresholdDeg in the requested direction, then refines it by
// bisection. The coarse scan covers spanDays in stepDays increments.
//
// ok is false when no crossing exists inside the window, which is a valid
// outcome: the Sun never rises in polar night and never sets in polar day.
// Errors only report provider failures.
func FindCrossing(alt AltitudeFunc, start astro.JulianDay, spanDays, stepDays, thresholdDeg float64, rising bool) (at astro.JulianDay, ok bool, err error) {
	prev, err := alt(start)
	if err != nil {
		return 0, false, err
	}

	prevJD := start
	steps := int(math.Ceil(spanDays / stepDays))
	for i := 1; i <= steps; i++ {
		jd := start.Add(stepDays * float64(i))
		cur, err := alt(jd)
		if err != nil {
			return 0, false, err
		}

		var crossed bool
		if rising {
			crossed = prev <= thresholdDeg && cur > thresholdDeg
		} else {
			crossed = prev >= thresholdDeg && cur < thresholdDeg
		}
		if crossed {
			return bisectCrossing(alt, prevJD, jd, thresholdDeg, rising)
		}

		prev, prevJD = cur, jd
	}

	return 0, false, nil
}

// bisectCrossing narrows a bracketing interval around a known crossing and
// returns its midpoint.
func bisectCrossing(alt AltitudeFunc, lo, hi astro.JulianDay, thresholdDeg float64, rising bool) (astro.JulianDay, bool, error) {
	for i := 0; i < bisectMaxSteps && hi.Sub(lo) > bisectTolerance; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)
		a, err := alt(mid)
		if err != nil {
			return 0, false, err
		}

		beforeCrossing := (rising && a <= thresholdDeg) || (!rising && a >= thresholdDeg)
		if beforeCrossing {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo.Add(hi.Sub(lo) / 2), true, nil
}

// altitudeFunc binds the provider and observer into an AltitudeFunc.
func (e *Engine) altitudeFunc(b astro.Body, latDeg, lonDeg float64) AltitudeFunc {
	return func(jd astro.JulianDay) (float64, error) {
		return astro.Altitude(e.provider, b, jd, latDeg, lonDeg)
	}
}

// Sunrise finds the first sunrise at or after start, scanning one day.
// start is normally local midnight expressed as a Julian Day.
func (e *Engine) Sunrise(start astro.JulianDay, latDeg, lonDeg float64) (astro.JulianDay, bool, error) {
	return FindCrossing(e.altitudeFunc(astro.Sun, latDeg, lonDeg),
		start, solarScanSpan, solarScanStep, SunriseAltitude, true)
}

// Sunset finds the first sunset at or after start, scanning one day.
func (e *Engine) Sunset(start astro.JulianDay, latDeg, lonDeg float64) (astro.JulianDay, bool, error) {
	return FindCrossing(e.altitudeFunc(astro.Sun, latDeg, lonDeg),
		start, solarScanSpan, solarScanStep, SunriseAltitude, false)
}

// Moonrise finds the first moonrise at or after start, scanning two days.
func (e *Engine) Moonrise(start astro.JulianDay, latDeg, lonDeg float64) (astro.JulianDay, bool, error) {
	return FindCrossing(e.altitudeFunc(astro.Moon, latDeg, lonDeg),
		start, lunarScanSpan, lunarScanStep, MoonAltitude, true)
}

// Moonset finds the first moonset at or after start, scanning two days.
func (e *Engine) Moonset(start astro.JulianDay, latDeg, lonDeg float64) (astro.JulianDay, bool, error) {
	return FindCrossing(e.altitudeFunc(astro.Moon, latDeg, lonDeg),
		start, lunarScanSpan, lunarScanStep, MoonAltitude, false)
}
