// Command almanac exports computed panchangam days for one city across a
// date range as JSON.
//
// Usage:
//
//	go run ./cmd/almanac -city bengaluru -from 2025-01-01 -to 2025-01-31 -o january.json
//
// With no -o flag the almanac is written to stdout. Days the engine cannot
// compute (no sunrise at polar latitudes) are recorded with an error field
// instead of aborting the export.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/config"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

// almanacFile is the exported document: the city identity plus one entry per
// civil date in the range.
type almanacFile struct {
	City      string     `json:"city"`
	Slug      string     `json:"slug"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Days      []dayEntry `json:"days"`
}

type dayEntry struct {
	Date      string        `json:"date"`
	Vaara     string        `json:"vaara"`
	Sunrise   string        `json:"sunrise,omitempty"`
	Sunset    string        `json:"sunset,omitempty"`
	Moonrise  string        `json:"moonrise,omitempty"`
	Moonset   string        `json:"moonset,omitempty"`
	Tithi     []periodEntry `json:"tithi,omitempty"`
	Nakshatra []periodEntry `json:"nakshatra,omitempty"`
	Yoga      []periodEntry `json:"yoga,omitempty"`
	Karana    []periodEntry `json:"karana,omitempty"`
	Skipped   []string      `json:"skipped,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type periodEntry struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func main() {
	citySlug := flag.String("city", "bengaluru", "City slug from the catalog")
	fromStr := flag.String("from", "", "First date, YYYY-MM-DD (default today)")
	toStr := flag.String("to", "", "Last date, YYYY-MM-DD (default from+29 days)")
	dbPath := flag.String("db", "data/panchangam.db", "Path to SQLite database")
	outputFile := flag.String("o", "", "Output file (default stdout)")
	flag.Parse()

	from, to, err := resolveRange(*fromStr, *toStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*citySlug, from, to, *dbPath, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if fromStr == "" {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return from, to, fmt.Errorf("-from: %w", err)
		}
	}

	if toStr == "" {
		to = from.AddDate(0, 0, 29)
	} else {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return from, to, fmt.Errorf("-to: %w", err)
		}
	}

	if to.Before(from) {
		return from, to, fmt.Errorf("-to %s is before -from %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return from, to, nil
}

func run(citySlug string, from, to time.Time, dbPath, outputFile string) error {
	ctx := context.Background()
	startTime := time.Now()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// =========================================================================
	// Step 1: Load the city from the catalog
	// =========================================================================
	st, err := store.Open(store.DefaultConfig(config.DriverSQLite, dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if _, err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	city, err := st.GetLocation(ctx, citySlug)
	if err != nil {
		if store.IsNotFound(err) {
			return fmt.Errorf("city %q is not in the catalog; run cmd/import first", citySlug)
		}
		return fmt.Errorf("load city: %w", err)
	}

	tz, err := time.LoadLocation(city.Timezone)
	if err != nil {
		return fmt.Errorf("city timezone %q: %w", city.Timezone, err)
	}

	// =========================================================================
	// Step 2: Compute every day in the range
	// =========================================================================
	engine := panchang.NewEngine(astro.NewMeeus(), logger)

	doc := almanacFile{
		City:      city.Name,
		Slug:      city.Slug,
		Latitude:  city.Latitude,
		Longitude: city.Longitude,
		Timezone:  city.Timezone,
		From:      from.Format("2006-01-02"),
		To:        to.Format("2006-01-02"),
	}

	failures := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		entry := computeEntry(engine, city, tz, d)
		if entry.Error != "" {
			failures++
		}
		doc.Days = append(doc.Days, entry)
	}

	// =========================================================================
	// Step 3: Write the document
	// =========================================================================
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal almanac: %w", err)
	}
	data = append(data, '\n')

	if outputFile == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write almanac: %w", err)
		}
	} else {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("write almanac: %w", err)
		}
	}

	elapsed := time.Since(startTime)

	// The summary goes to stderr so a stdout export stays valid JSON.
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "=== Export Summary ===")
	fmt.Fprintf(os.Stderr, "City:            %s (%s)\n", city.Name, city.Timezone)
	fmt.Fprintf(os.Stderr, "Date range:      %s to %s\n", doc.From, doc.To)
	fmt.Fprintf(os.Stderr, "Days exported:   %d\n", len(doc.Days))
	fmt.Fprintf(os.Stderr, "Days failed:     %d\n", failures)
	if outputFile != "" {
		fmt.Fprintf(os.Stderr, "Written to:      %s\n", outputFile)
	}
	fmt.Fprintf(os.Stderr, "Time elapsed:    %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// computeEntry builds the export row for one civil date. Compute failures
// become an error entry so one polar date cannot sink a year-long export.
func computeEntry(engine *panchang.Engine, city *store.Location, tz *time.Location, date time.Time) dayEntry {
	entry := dayEntry{
		Date:  date.Format("2006-01-02"),
		Vaara: panchang.VaaraName(date.Weekday()),
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tz)
	day, err := engine.BuildDay(astro.JulianDayFromTime(midnight), city.Latitude, city.Longitude)
	if err != nil {
		if errors.Is(err, panchang.ErrNoWindow) {
			entry.Error = "no sunrise on this date"
		} else {
			entry.Error = err.Error()
		}
		return entry
	}

	entry.Sunrise = isoIn(day.Window.Start, tz)
	entry.Sunset = eventISO(day.Sunset, tz)
	entry.Moonrise = eventISO(day.Moonrise, tz)
	entry.Moonset = eventISO(day.Moonset, tz)

	entry.Tithi = periodEntries(day.Tithi, tz)
	entry.Nakshatra = periodEntries(day.Nakshatra, tz)
	entry.Yoga = periodEntries(day.Yoga, tz)
	entry.Karana = periodEntries(day.Karana, tz)

	for _, c := range panchang.Categories {
		if day.Element(c).Skipped {
			entry.Skipped = append(entry.Skipped, c.String())
		}
	}

	return entry
}

func periodEntries(elem panchang.Element, tz *time.Location) []periodEntry {
	entries := make([]periodEntry, 0, len(elem.Periods))
	for _, p := range elem.Periods {
		entries = append(entries, periodEntry{
			Number: p.Number,
			Name:   p.Name,
			Start:  isoIn(p.Start, tz),
			End:    isoIn(p.End, tz),
		})
	}
	return entries
}

func isoIn(jd astro.JulianDay, tz *time.Location) string {
	return jd.Time().In(tz).Format(time.RFC3339)
}

func eventISO(ev panchang.Event, tz *time.Location) string {
	if !ev.Ok {
		return ""
	}
	return isoIn(ev.At, tz)
}
