package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDayKnownEpochs(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want JulianDay
	}{
		{
			name: "unix epoch",
			t:    time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 2440587.5,
		},
		{
			name: "J2000",
			t:    time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			want: 2451545.0,
		},
		{
			name: "2025 midnight",
			t:    time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
			want: 2460953.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDayFromTime(tt.t)
			if math.Abs(got.Sub(tt.want)) > 1e-9 {
				t.Errorf("JulianDayFromTime(%v) = %f, want %f", tt.t, float64(got), float64(tt.want))
			}
		})
	}
}

func TestJulianDayRoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(1969, 7, 20, 20, 17, 40, 0, time.UTC),
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 5, 6, 16, 12, 0, time.UTC),
		time.Date(2030, 2, 28, 23, 59, 59, 0, time.UTC),
	}

	for _, in := range times {
		got := JulianDayFromTime(in).Time()
		if diff := got.Sub(in).Abs(); diff > time.Millisecond {
			t.Errorf("round trip of %v drifted by %v", in, diff)
		}
	}
}

func TestJulianDayArithmetic(t *testing.T) {
	jd := JulianDay(2451545.0)

	if got := jd.Add(1.5); math.Abs(float64(got)-2451546.5) > 1e-9 {
		t.Errorf("Add(1.5) = %f, want 2451546.5", float64(got))
	}
	if got := jd.Add(1.5).Sub(jd); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("Sub = %f, want 1.5", got)
	}

	// A Julian Day starts at noon, so converting back from x.0 must land
	// on 12:00 UT.
	if got := jd.Time().Hour(); got != 12 {
		t.Errorf("J2000 converts to hour %d, want 12", got)
	}
}
