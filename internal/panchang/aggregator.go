package panchang

import (
	"fmt"
	"sort"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
)

// Window is a Hindu day: one sunrise to the next. Every element period is
// reported against this span, not against the civil date.
type Window struct {
	Start astro.JulianDay
	End   astro.JulianDay
}

// Event is an optional instant. Ok is false when the event does not occur
// inside its search window, as with the Moon on days it never sets.
type Event struct {
	At astro.JulianDay
	Ok bool
}

// Period is one element period, named and bounded. Start is always before
// End.
type Period struct {
	Category Category
	Number   int
	Name     string
	Start    astro.JulianDay
	End      astro.JulianDay
}

// Overlaps reports whether the period intersects the window. Touching at an
// endpoint does not count.
func (p Period) Overlaps(w Window) bool {
	return p.Start < w.End && p.End > w.Start
}

// Element is one category's slice of the Hindu day: every period that
// overlaps the window, in start order, plus a flag for days that jump an
// entire period between consecutive sunrises.
type Element struct {
	Periods []Period
	Skipped bool
}

// Day is the assembled almanac for one Hindu day.
type Day struct {
	Window    Window
	Sunset    Event
	Moonrise  Event
	Moonset   Event
	Tithi     Element
	Nakshatra Element
	Yoga      Element
	Karana    Element
}

// Element returns the category's element by value.
func (d *Day) Element(c Category) Element {
	switch c {
	case Tithi:
		return d.Tithi
	case Nakshatra:
		return d.Nakshatra
	case Yoga:
		return d.Yoga
	case Karana:
		return d.Karana
	default:
		return Element{}
	}
}

// How far beyond the window the aggregator plants reference instants, and
// how far apart, in days. References must land inside every period that can
// touch the window, so the spacing stays below the shortest period: half a
// day clears a tithi's minimum of about 19 hours, and a quarter day clears
// a karana's minimum of about 9 hours.
const (
	referenceReach = 2.0
	referenceStep  = 0.5

	karanaReferenceReach = 1.0
	karanaReferenceStep  = 0.25
)

// BuildDay computes the full almanac for the Hindu day anchored at the
// first sunrise at or after start, which should be local midnight expressed
// as a Julian Day. ErrNoWindow is returned when that sunrise, or the next
// one, does not exist.
func (e *Engine) BuildDay(start astro.JulianDay, latDeg, lonDeg float64) (*Day, error) {
	sunrise, ok, err := e.Sunrise(start, latDeg, lonDeg)
	if err != nil {
		return nil, fmt.Errorf("sunrise: %w", err)
	}
	if !ok {
		return nil, ErrNoWindow
	}

	nextSunrise, ok, err := e.Sunrise(start.Add(1), latDeg, lonDeg)
	if err != nil {
		return nil, fmt.Errorf("next sunrise: %w", err)
	}
	if !ok {
		return nil, ErrNoWindow
	}

	day := &Day{Window: Window{Start: sunrise, End: nextSunrise}}

	sunset, ok, err := e.Sunset(start, latDeg, lonDeg)
	if err != nil {
		return nil, fmt.Errorf("sunset: %w", err)
	}
	day.Sunset = Event{At: sunset, Ok: ok}

	moonrise, ok, err := e.Moonrise(start, latDeg, lonDeg)
	if err != nil {
		return nil, fmt.Errorf("moonrise: %w", err)
	}
	day.Moonrise = Event{At: moonrise, Ok: ok}

	// The Moon sets once per lunar transit, so the set that belongs with a
	// found rise is the first one after it.
	moonsetFrom := start
	if day.Moonrise.Ok {
		moonsetFrom = moonrise
	}
	moonset, ok, err := e.Moonset(moonsetFrom, latDeg, lonDeg)
	if err != nil {
		return nil, fmt.Errorf("moonset: %w", err)
	}
	day.Moonset = Event{At: moonset, Ok: ok}

	for _, c := range Categories {
		elem, err := e.buildElement(c, day.Window)
		if err != nil {
			return nil, fmt.Errorf("%s periods: %w", c, err)
		}
		switch c {
		case Tithi:
			day.Tithi = elem
		case Nakshatra:
			day.Nakshatra = elem
		case Yoga:
			day.Yoga = elem
		case Karana:
			day.Karana = elem
		}
	}

	return day, nil
}

// buildElement collects the category's overlapping periods and its skip
// flag for the window.
func (e *Engine) buildElement(c Category, w Window) (Element, error) {
	periods, err := e.collectPeriods(c, w)
	if err != nil {
		return Element{}, err
	}

	skipped, err := e.detectSkip(c, w)
	if err != nil {
		return Element{}, err
	}

	return Element{Periods: periods, Skipped: skipped}, nil
}

// collectPeriods fans reference instants across the window and its margins,
// projects the boundary ending the period each reference sits in, and
// stitches consecutive boundaries into periods. Only periods overlapping
// the window survive, sorted by start.
func (e *Engine) collectPeriods(c Category, w Window) ([]Period, error) {
	fn := e.angleFor(c)

	reach, step := referenceReach, referenceStep
	if c == Karana {
		reach, step = karanaReferenceReach, karanaReferenceStep
	}

	type boundary struct {
		number int // period this boundary closes
		at     astro.JulianDay
	}

	seen := make(map[int]bool)
	var bounds []boundary

	for ref := w.Start.Add(-reach); ref < w.End.Add(reach); ref = ref.Add(step) {
		angle, err := fn(ref)
		if err != nil {
			return nil, err
		}

		n := c.NumberAt(angle)
		if seen[n] {
			// A later reference inside an already-projected period adds
			// nothing; the first one saw the whole period ahead of it.
			continue
		}
		seen[n] = true

		end, err := e.ProjectBoundary(fn, ref, astro.Norm360(c.Step()*float64(n)))
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, boundary{number: n, at: end})
	}

	sort.Slice(bounds, func(i, j int) bool { return bounds[i].at < bounds[j].at })

	var periods []Period
	for i := 1; i < len(bounds); i++ {
		prev, cur := bounds[i-1], bounds[i]
		if cur.number != prev.number%c.Count()+1 {
			// A hole in the boundary chain means a period shorter than the
			// reference spacing slipped through; nothing sound can be
			// reported for it.
			e.logger.Warn("boundary chain gap",
				"category", c.String(),
				"after", prev.number,
				"found", cur.number)
			continue
		}

		p := Period{
			Category: c,
			Number:   cur.number,
			Name:     c.Name(cur.number),
			Start:    prev.at,
			End:      cur.at,
		}
		if p.Overlaps(w) {
			periods = append(periods, p)
		}
	}

	return periods, nil
}

// detectSkip compares the period number at both ends of the window. A day
// that advances more periods than its category's nominal count skipped one
// entirely; the skipped period still appears in the period list, this flag
// is how the almanac marks the day.
func (e *Engine) detectSkip(c Category, w Window) (bool, error) {
	fn := e.angleFor(c)

	first, err := fn(w.Start)
	if err != nil {
		return false, err
	}
	last, err := fn(w.End)
	if err != nil {
		return false, err
	}

	advance := (c.NumberAt(last) - c.NumberAt(first) + c.Count()) % c.Count()
	return advance > c.nominalAdvance(), nil
}
