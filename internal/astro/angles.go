package astro

import "math"

// Norm360 wraps an angle in degrees to the range [0, 360).
func Norm360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Norm180 wraps an angle in degrees to the range [-180, 180).
func Norm180(deg float64) float64 {
	deg = Norm360(deg)
	if deg >= 180 {
		deg -= 360
	}
	return deg
}

// Degree-argument trig wrappers. The ephemeris series are published in
// degrees, so keeping the conversion here avoids sprinkling Pi/180 through
// every formula.

func sind(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
func cosd(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
func tand(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }

// asind returns the arcsine in degrees, clamping the argument to [-1, 1] so
// accumulated floating point error can never produce NaN.
func asind(x float64) float64 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math.Asin(x) * 180 / math.Pi
}

// atan2d returns the two-argument arctangent in degrees.
func atan2d(y, x float64) float64 { return math.Atan2(y, x) * 180 / math.Pi }
