package panchang

import (
	"errors"
	"math"
	"testing"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

func TestProjectBoundaryLinearPhase(t *testing.T) {
	epoch := astro.JulianDay(2460953.5)

	// Sun at 1 deg/day, Moon at 13.176: the phase advances 12.176 deg/day
	// from 350, so it reaches 360 after 10/12.176 days. Lagrange inversion
	// is exact on linear motion.
	e := testEngine(t, linearProvider{
		epoch:    epoch,
		sunLon:   0,
		sunRate:  1,
		moonLon:  350,
		moonRate: 13.176,
	})

	got, err := e.ProjectBoundary(e.LunarPhase, epoch, 360)
	if err != nil {
		t.Fatalf("ProjectBoundary: %v", err)
	}

	want := epoch.Add(10 / 12.176)
	if diff := math.Abs(got.Sub(want)); diff > 1e-6 {
		t.Errorf("boundary off by %g days, want within 1e-6", diff)
	}
}

func TestProjectBoundaryAcrossRollover(t *testing.T) {
	epoch := astro.JulianDay(2460953.5)

	// The phase starts at 355 and the target sits at 6, past the 360 to 0
	// rollover: 11 degrees ahead.
	e := testEngine(t, linearProvider{
		epoch:    epoch,
		moonLon:  355,
		moonRate: 12,
	})

	got, err := e.ProjectBoundary(e.LunarPhase, epoch, 6)
	if err != nil {
		t.Fatalf("ProjectBoundary: %v", err)
	}

	want := epoch.Add(11.0 / 12)
	if diff := math.Abs(got.Sub(want)); diff > 1e-6 {
		t.Errorf("boundary off by %g days, want within 1e-6", diff)
	}
}

func TestSampleAdvanceUnwraps(t *testing.T) {
	epoch := astro.JulianDay(2460953.5)

	// 500 deg/day forces the raw samples to wrap mid-sequence; after
	// unwrapping the advance must be non-decreasing and reach the true
	// total.
	fast := func(jd astro.JulianDay) (float64, error) {
		return astro.Norm360(500 * jd.Sub(epoch)), nil
	}

	advance, err := sampleAdvance(fast, epoch, 0)
	if err != nil {
		t.Fatalf("sampleAdvance: %v", err)
	}

	prev := 0.0
	for i, d := range advance {
		if d < prev {
			t.Errorf("advance[%d] = %f decreased below %f", i, d, prev)
		}
		prev = d
	}

	if math.Abs(advance[3]-500) > 1e-9 {
		t.Errorf("advance after one day = %f, want 500", advance[3])
	}
}

func TestProjectBoundaryDegenerateFallsBack(t *testing.T) {
	epoch := astro.JulianDay(2460953.5)
	e := testEngine(t, linearProvider{epoch: epoch})

	// Flat for the first half day, then climbing: the two equal samples
	// make the polynomial undefined, so the projection must fall back to
	// the mean rate (20 deg over the sampled day) instead of failing.
	stall := func(jd astro.JulianDay) (float64, error) {
		since := jd.Sub(epoch)
		if since < 0.6 {
			return 0, nil
		}
		return 50 * (since - 0.6), nil
	}

	got, err := e.ProjectBoundary(stall, epoch, 10)
	if err != nil {
		t.Fatalf("ProjectBoundary: %v", err)
	}

	want := epoch.Add(0.5) // 10 degrees at the 20 deg/day mean rate
	if diff := math.Abs(got.Sub(want)); diff > 1e-9 {
		t.Errorf("fallback boundary off by %g days", diff)
	}
}

func TestProjectBoundaryMotionless(t *testing.T) {
	e := testEngine(t, linearProvider{})
	frozen := func(astro.JulianDay) (float64, error) { return 42, nil }

	_, err := e.ProjectBoundary(frozen, 2460953.5, 60)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("error = %v, want ErrDegenerate", err)
	}
}

func TestProjectBoundaryPropagatesError(t *testing.T) {
	e := testEngine(t, downProvider{})

	_, err := e.ProjectBoundary(e.LunarPhase, 2460953.5, 12)
	if !errors.Is(err, astro.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestInverseLagrangeLinearExact(t *testing.T) {
	// y = 3 + 12x sampled at the projection offsets; inverting at y = 9
	// must give x = 0.5 to numerical precision.
	var ys [4]float64
	for i, x := range projectionOffsets {
		ys[i] = 3 + 12*x
	}

	x, ok := inverseLagrange(projectionOffsets, ys, 9)
	if !ok {
		t.Fatal("inverseLagrange reported degenerate samples on a clean line")
	}
	if math.Abs(x-0.5) > 1e-9 {
		t.Errorf("x = %g, want 0.5", x)
	}
}

func TestInverseLagrangeDegenerate(t *testing.T) {
	ys := [4]float64{5, 5, 10, 15}
	if _, ok := inverseLagrange(projectionOffsets, ys, 7); ok {
		t.Error("equal sample pair not reported as degenerate")
	}
}
