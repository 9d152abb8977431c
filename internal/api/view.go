package api

import (
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
)

// =============================================================================
// Response Shapes
// =============================================================================

// LocationInfo echoes where the almanac was computed.
type LocationInfo struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates is the location echo for requests without a catalog city.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PeriodTime names one period with its boundaries in local ISO time.
type PeriodTime struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// SimpleTime is a clock-time window within the civil day.
type SimpleTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// InauspiciousPeriods groups the windows to avoid.
type InauspiciousPeriods struct {
	Rahu      SimpleTime   `json:"rahu"`
	Gulika    SimpleTime   `json:"gulika"`
	Yamaganda SimpleTime   `json:"yamaganda"`
	Varjyam   []SimpleTime `json:"varjyam"`
}

// AuspiciousPeriods groups the favourable windows.
type AuspiciousPeriods struct {
	AbhijitMuhurat SimpleTime `json:"abhijit_muhurat"`
	BrahmaMuhurat  SimpleTime `json:"brahma_muhurat"`
	PradoshaTime   SimpleTime `json:"pradosha_time"`
}

// PanchangamView is the classic one-day almanac: the period of each element
// that prevails at sunrise, rise and set times, and the day's windows.
// Absent rise/set events (high latitudes) render as empty strings, never as
// made-up times.
type PanchangamView struct {
	Location            LocationInfo        `json:"location"`
	Date                string              `json:"date"`
	Vaara               string              `json:"vaara"`
	Sunrise             string              `json:"sunrise"`
	Sunset              string              `json:"sunset"`
	Moonrise            string              `json:"moonrise"`
	Moonset             string              `json:"moonset"`
	Tithi               PeriodTime          `json:"tithi"`
	Nakshatra           PeriodTime          `json:"nakshatra"`
	Karana              PeriodTime          `json:"karana"`
	Yoga                PeriodTime          `json:"yoga"`
	InauspiciousPeriods InauspiciousPeriods `json:"inauspicious_periods"`
	AuspiciousPeriods   AuspiciousPeriods   `json:"auspicious_periods"`
}

// PeriodView is one period in a full Hindu-day listing.
type PeriodView struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// ElementView lists every period of one element overlapping the Hindu day,
// with the skip flag raised when a whole period fell through the day.
type ElementView struct {
	Periods []PeriodView `json:"periods"`
	Skipped bool         `json:"skipped"`
}

// PeriodsView is the full Hindu-day breakdown, every period of every element
// between sunrise and next sunrise.
type PeriodsView struct {
	Date          string      `json:"date"`
	Timezone      string      `json:"timezone"`
	Location      Coordinates `json:"location"`
	Vaara         string      `json:"vaara"`
	Sunrise       string      `json:"sunrise"`
	Sunset        string      `json:"sunset"`
	Moonrise      string      `json:"moonrise"`
	Moonset       string      `json:"moonset"`
	SunriseNext   string      `json:"sunrise_next"`
	HinduDayStart string      `json:"hindu_day_start"`
	HinduDayEnd   string      `json:"hindu_day_end"`
	Tithis        ElementView `json:"tithis"`
	Nakshatras    ElementView `json:"nakshatras"`
	Karanas       ElementView `json:"karanas"`
	Yogas         ElementView `json:"yogas"`
}

// CityView is one entry of the public city list.
type CityView struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// =============================================================================
// Formatting
// =============================================================================

func localTime(jd astro.JulianDay, loc *time.Location) time.Time {
	return jd.Time().In(loc)
}

// clock12 renders an instant as "06:09 AM" local time.
func clock12(jd astro.JulianDay, loc *time.Location) string {
	return localTime(jd, loc).Format("03:04 PM")
}

// clock24 renders an instant as "16:30" local time.
func clock24(jd astro.JulianDay, loc *time.Location) string {
	return localTime(jd, loc).Format("15:04")
}

// isoTime renders an instant as RFC 3339 with the local offset.
func isoTime(jd astro.JulianDay, loc *time.Location) string {
	return localTime(jd, loc).Format(time.RFC3339)
}

// eventClock12 renders a rise/set event, or "" when the event never happens.
func eventClock12(ev panchang.Event, loc *time.Location) string {
	if !ev.Ok {
		return ""
	}
	return clock12(ev.At, loc)
}

func eventISO(ev panchang.Event, loc *time.Location) string {
	if !ev.Ok {
		return ""
	}
	return isoTime(ev.At, loc)
}

// =============================================================================
// View Builders
// =============================================================================

// activePeriod picks the period in force at the given instant, usually
// sunrise. When the instant sits exactly on a boundary the later period wins,
// matching how period numbering treats boundaries.
func activePeriod(elem panchang.Element, at astro.JulianDay) (panchang.Period, bool) {
	for _, p := range elem.Periods {
		if p.Start <= at && at < p.End {
			return p, true
		}
	}
	if len(elem.Periods) > 0 {
		return elem.Periods[0], true
	}
	return panchang.Period{}, false
}

func periodTime(elem panchang.Element, at astro.JulianDay, loc *time.Location) PeriodTime {
	p, ok := activePeriod(elem, at)
	if !ok {
		return PeriodTime{}
	}
	return PeriodTime{
		Name:  p.Name,
		Start: isoTime(p.Start, loc),
		End:   isoTime(p.End, loc),
	}
}

func elementView(elem panchang.Element, loc *time.Location) ElementView {
	view := ElementView{
		Periods: make([]PeriodView, 0, len(elem.Periods)),
		Skipped: elem.Skipped,
	}
	for _, p := range elem.Periods {
		view.Periods = append(view.Periods, PeriodView{
			Number: p.Number,
			Name:   p.Name,
			Start:  isoTime(p.Start, loc),
			End:    isoTime(p.End, loc),
		})
	}
	return view
}

// buildPanchangamView flattens a computed day into the classic almanac
// response. date must be midnight of the civil date in loc.
func buildPanchangamView(day *panchang.Day, city string, lat, lon float64, date time.Time, loc *time.Location) PanchangamView {
	sunrise := day.Window.Start

	view := PanchangamView{
		Location:  LocationInfo{City: city, Latitude: lat, Longitude: lon},
		Date:      date.Format(dateLayout),
		Vaara:     panchang.VaaraName(date.Weekday()),
		Sunrise:   clock12(sunrise, loc),
		Sunset:    eventClock12(day.Sunset, loc),
		Moonrise:  eventClock12(day.Moonrise, loc),
		Moonset:   eventClock12(day.Moonset, loc),
		Tithi:     periodTime(day.Tithi, sunrise, loc),
		Nakshatra: periodTime(day.Nakshatra, sunrise, loc),
		Karana:    periodTime(day.Karana, sunrise, loc),
		Yoga:      periodTime(day.Yoga, sunrise, loc),
	}

	// The day windows need a sunset; without one (polar summer) they stay
	// empty rather than inventing times.
	if day.Sunset.Ok {
		for _, m := range panchang.MuhurtaWindows(sunrise, day.Sunset.At, date.Weekday()) {
			window := SimpleTime{Start: clock24(m.Start, loc), End: clock24(m.End, loc)}
			switch m.Name {
			case "Rahu Kalam":
				view.InauspiciousPeriods.Rahu = window
			case "Gulika Kalam":
				view.InauspiciousPeriods.Gulika = window
			case "Yamaganda Kalam":
				view.InauspiciousPeriods.Yamaganda = window
			case "Varjyam":
				view.InauspiciousPeriods.Varjyam = append(view.InauspiciousPeriods.Varjyam, window)
			case "Abhijit Muhurta":
				view.AuspiciousPeriods.AbhijitMuhurat = window
			case "Brahma Muhurta":
				view.AuspiciousPeriods.BrahmaMuhurat = window
			case "Pradosha":
				view.AuspiciousPeriods.PradoshaTime = window
			}
		}
	}
	if view.InauspiciousPeriods.Varjyam == nil {
		view.InauspiciousPeriods.Varjyam = []SimpleTime{}
	}

	return view
}

// buildPeriodsView flattens a computed day into the full period listing.
func buildPeriodsView(day *panchang.Day, lat, lon float64, date time.Time, tzName string, loc *time.Location) PeriodsView {
	return PeriodsView{
		Date:          date.Format(dateLayout),
		Timezone:      tzName,
		Location:      Coordinates{Latitude: lat, Longitude: lon},
		Vaara:         panchang.VaaraName(date.Weekday()),
		Sunrise:       isoTime(day.Window.Start, loc),
		Sunset:        eventISO(day.Sunset, loc),
		Moonrise:      eventISO(day.Moonrise, loc),
		Moonset:       eventISO(day.Moonset, loc),
		SunriseNext:   isoTime(day.Window.End, loc),
		HinduDayStart: isoTime(day.Window.Start, loc),
		HinduDayEnd:   isoTime(day.Window.End, loc),
		Tithis:        elementView(day.Tithi, loc),
		Nakshatras:    elementView(day.Nakshatra, loc),
		Karanas:       elementView(day.Karana, loc),
		Yogas:         elementView(day.Yoga, loc),
	}
}
