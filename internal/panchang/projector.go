package panchang

import (
	"math"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

// projectionOffsets are the sample points, in days ahead of the reference,
// used to fit the angle's motion. Four points give a cubic fit, enough to
// follow the Moon's varying speed across a day.
var projectionOffsets = [4]float64{0.25, 0.5, 0.75, 1.0}

// ProjectBoundary returns the instant at or after reference when fn reaches
// targetDeg. The angle's advance is sampled at the projection offsets,
// unwrapped so the 360 to 0 rollover cannot fold the sequence, and inverted
// with a Lagrange polynomial in the advance variable.
//
// When the samples are degenerate (two equal values make the polynomial
// undefined) the projection falls back to the mean rate over the sampled
// day and logs the event; only a motionless angle is an error.
func (e *Engine) ProjectBoundary(fn AngleFunc, reference astro.JulianDay, targetDeg float64) (astro.JulianDay, error) {
	base, err := fn(reference)
	if err != nil {
		return 0, err
	}
	degreesLeft := astro.Norm360(targetDeg - base)

	advance, err := sampleAdvance(fn, reference, base)
	if err != nil {
		return 0, err
	}

	days, ok := inverseLagrange(projectionOffsets, advance, degreesLeft)
	if !ok {
		rate := advance[len(advance)-1] / projectionOffsets[len(projectionOffsets)-1]
		if rate <= 0 {
			return 0, ErrDegenerate
		}
		e.logger.Warn("degenerate boundary samples, falling back to mean rate",
			"reference", float64(reference),
			"target_deg", targetDeg,
			"rate_deg_per_day", rate)
		days = degreesLeft / rate
	}

	return reference.Add(days), nil
}

// sampleAdvance measures how far the angle has moved past its value at the
// reference, in degrees, at each projection offset. The result is
// unwrapped: whenever a sample reads below its predecessor the remainder of
// the sequence is lifted by a full turn, so the advance never decreases.
func sampleAdvance(fn AngleFunc, reference astro.JulianDay, base float64) ([4]float64, error) {
	var advance [4]float64
	prev := 0.0
	for i, off := range projectionOffsets {
		a, err := fn(reference.Add(off))
		if err != nil {
			return advance, err
		}

		d := astro.Norm360(a - base)
		for d < prev {
			d += 360
		}
		advance[i] = d
		prev = d
	}
	return advance, nil
}

// inverseLagrange evaluates x as a Lagrange polynomial in y at the target
// value: x(y*) = sum_i x_i * prod_{j!=i} (y* - y_j)/(y_i - y_j). It is exact
// when x and y are related linearly. ok is false when two sample values
// coincide, which leaves the polynomial undefined.
func inverseLagrange(xs, ys [4]float64, target float64) (x float64, ok bool) {
	const eps = 1e-9

	for i := range ys {
		term := xs[i]
		for j := range ys {
			if j == i {
				continue
			}
			den := ys[i] - ys[j]
			if math.Abs(den) < eps {
				return 0, false
			}
			term *= (target - ys[j]) / den
		}
		x += term
	}
	return x, true
}
