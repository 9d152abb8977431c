package panchang

import (
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

// Muhurta is a named auspicious or inauspicious window of the civil day,
// derived arithmetically from sunrise and sunset.
type Muhurta struct {
	Name       string
	Start      astro.JulianDay
	End        astro.JulianDay
	Auspicious bool
}

// The three kalam windows each occupy one eighth of the daylight span; which
// eighth depends on the weekday. Tables are 1-based segment numbers indexed
// by time.Weekday, Sunday first.
var (
	rahuSegments      = [7]int{8, 2, 7, 5, 6, 4, 3}
	gulikaSegments    = [7]int{7, 6, 5, 4, 3, 2, 1}
	yamagandaSegments = [7]int{5, 4, 3, 2, 1, 7, 6}
)

const minutes = 1.0 / 1440

// MuhurtaWindows derives the traditional day windows from sunrise, sunset,
// and the weekday of the civil date at the observer's location. Windows are
// returned in a fixed presentation order: the auspicious ones first.
func MuhurtaWindows(sunrise, sunset astro.JulianDay, weekday time.Weekday) []Muhurta {
	daylight := sunset.Sub(sunrise)
	eighth := daylight / 8
	noon := sunrise.Add(daylight / 2)

	segment := func(n int) (astro.JulianDay, astro.JulianDay) {
		start := sunrise.Add(eighth * float64(n-1))
		return start, start.Add(eighth)
	}

	windows := []Muhurta{
		{
			Name:       "Abhijit Muhurta",
			Start:      noon.Add(-12 * minutes),
			End:        noon.Add(12 * minutes),
			Auspicious: true,
		},
		{
			Name:       "Brahma Muhurta",
			Start:      sunrise.Add(-96 * minutes),
			End:        sunrise.Add(-36 * minutes),
			Auspicious: true,
		},
		{
			Name:       "Pradosha",
			Start:      sunset.Add(-90 * minutes),
			End:        sunset.Add(90 * minutes),
			Auspicious: true,
		},
	}

	rahuStart, rahuEnd := segment(rahuSegments[weekday])
	windows = append(windows, Muhurta{Name: "Rahu Kalam", Start: rahuStart, End: rahuEnd})

	gulikaStart, gulikaEnd := segment(gulikaSegments[weekday])
	windows = append(windows, Muhurta{Name: "Gulika Kalam", Start: gulikaStart, End: gulikaEnd})

	yamaStart, yamaEnd := segment(yamagandaSegments[weekday])
	windows = append(windows, Muhurta{Name: "Yamaganda Kalam", Start: yamaStart, End: yamaEnd})

	windows = append(windows, varjyamWindows(sunrise, weekday)...)

	return windows
}

// varjyamWindows returns the day's varjyam periods: one mid-day window
// every day, and a second late window on Tuesday, Thursday, and Saturday.
func varjyamWindows(sunrise astro.JulianDay, weekday time.Weekday) []Muhurta {
	first := sunrise.Add(6.5 / 24)
	out := []Muhurta{{
		Name:  "Varjyam",
		Start: first,
		End:   first.Add(45 * minutes),
	}}

	switch weekday {
	case time.Tuesday, time.Thursday, time.Saturday:
		second := sunrise.Add(11.25 / 24)
		out = append(out, Muhurta{
			Name:  "Varjyam",
			Start: second,
			End:   second.Add(50 * minutes),
		})
	}

	return out
}
