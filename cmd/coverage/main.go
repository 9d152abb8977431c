// Command coverage sweeps the panchangam engine across a span of years for
// every city in the catalog and reports the dates that fail to compute.
//
// A clean sweep proves the ephemeris and the period aggregation hold up for
// the whole range: no boundary-chain gaps, no unexpected errors. Days with a
// skipped period are counted separately; a kshaya tithi is astronomy, not a
// defect.
//
// Usage:
//
//	go run ./cmd/coverage -db data/panchangam.db -start 2024 -years 4
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/config"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

// sweepResult holds the outcome for a single city and date.
type sweepResult struct {
	City    string   `json:"city"`
	Date    string   `json:"date"`
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Skipped []string `json:"skipped,omitempty"`
}

// cityStats tracks per-city totals across the sweep.
type cityStats struct {
	City        string   `json:"city"`
	TotalDays   int      `json:"total_days"`
	FailedDays  int      `json:"failed_days"`
	SkippedDays int      `json:"skipped_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

func main() {
	dbPath := flag.String("db", "data/panchangam.db", "Path to SQLite database")
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to sweep")
	citySlug := flag.String("city", "", "Limit the sweep to one city slug")
	verbose := flag.Bool("v", false, "Verbose output (show each failing date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Panchangam Engine - Coverage Sweep")
	fmt.Println("================================================================")
	fmt.Printf("Database:    %s\n", *dbPath)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	cities, err := loadCities(*dbPath, *citySlug)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	results := sweepAllDates(cities, *startYear, endYear, *verbose)

	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func loadCities(dbPath, citySlug string) ([]store.Location, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	st, err := store.Open(store.DefaultConfig(config.DriverSQLite, dbPath), logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if _, err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if citySlug != "" {
		city, err := st.GetLocation(ctx, citySlug)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, fmt.Errorf("city %q is not in the catalog", citySlug)
			}
			return nil, fmt.Errorf("load city: %w", err)
		}
		return []store.Location{*city}, nil
	}

	cities, err := st.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("city catalog is empty; run cmd/import first")
	}
	return cities, nil
}

func sweepAllDates(cities []store.Location, startYear, endYear int, verbose bool) []sweepResult {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	engine := panchang.NewEngine(astro.NewMeeus(), logger)

	daysPerCity := 0
	for year := startYear; year <= endYear; year++ {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
		daysPerCity += int(end.Sub(start).Hours()/24) + 1
	}
	totalDays := daysPerCity * len(cities)

	fmt.Printf("Sweeping %d days across %d cities (%d computations)...\n\n",
		daysPerCity, len(cities), totalDays)

	var results []sweepResult
	swept := 0
	failed := 0
	lastProgress := -1

	for _, city := range cities {
		tz, err := time.LoadLocation(city.Timezone)
		if err != nil {
			// A broken catalog row fails every date for that city.
			results = append(results, sweepResult{
				City:  city.Name,
				Date:  fmt.Sprintf("%d-01-01", startYear),
				Error: fmt.Sprintf("timezone %q: %v", city.Timezone, err),
			})
			failed++
			continue
		}

		current := time.Date(startYear, 1, 1, 0, 0, 0, 0, tz)
		endOfRange := time.Date(endYear, 12, 31, 0, 0, 0, 0, tz)

		for !current.After(endOfRange) {
			result := sweepDate(engine, city, current)
			results = append(results, result)

			swept++
			if !result.OK {
				failed++
			}

			progress := (swept * 100) / totalDays
			if progress != lastProgress && progress%5 == 0 {
				fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n",
					progress, swept, totalDays, failed)
				lastProgress = progress
			}

			if verbose && !result.OK {
				fmt.Printf("  ✗ %s %s: %s\n", result.City, result.Date, result.Error)
			}

			current = current.AddDate(0, 0, 1)
		}
	}

	fmt.Println()
	return results
}

func sweepDate(engine *panchang.Engine, city store.Location, date time.Time) sweepResult {
	result := sweepResult{
		City: city.Name,
		Date: date.Format("2006-01-02"),
	}

	day, err := engine.BuildDay(astro.JulianDayFromTime(date), city.Latitude, city.Longitude)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.OK = true
	for _, c := range panchang.Categories {
		if day.Element(c).Skipped {
			result.Skipped = append(result.Skipped, c.String())
		}
	}
	return result
}

// Analysis holds the aggregated sweep outcome.
type Analysis struct {
	TotalDays    int                   `json:"total_days"`
	TotalOK      int                   `json:"total_ok"`
	TotalFailed  int                   `json:"total_failed"`
	TotalSkipped int                   `json:"total_skipped"`
	ByCity       map[string]*cityStats `json:"by_city"`
	ByMonth      map[string]int        `json:"failures_by_month,omitempty"`
	Failures     []sweepResult         `json:"failures,omitempty"`
}

func analyzeResults(results []sweepResult) *Analysis {
	analysis := &Analysis{
		ByCity:  make(map[string]*cityStats),
		ByMonth: make(map[string]int),
	}

	for _, r := range results {
		analysis.TotalDays++

		if _, ok := analysis.ByCity[r.City]; !ok {
			analysis.ByCity[r.City] = &cityStats{City: r.City}
		}
		stats := analysis.ByCity[r.City]
		stats.TotalDays++

		if r.OK {
			analysis.TotalOK++
			if len(r.Skipped) > 0 {
				analysis.TotalSkipped++
				stats.SkippedDays++
			}
		} else {
			analysis.TotalFailed++
			stats.FailedDays++
			stats.FailedDates = append(stats.FailedDates, r.Date)
			analysis.Failures = append(analysis.Failures, r)

			if date, err := time.Parse("2006-01-02", r.Date); err == nil {
				analysis.ByMonth[date.Format("2006-01")]++
			}
		}
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Swept:  %d\n", analysis.TotalDays)
	fmt.Printf("Computed:          %d (%.1f%%)\n", analysis.TotalOK,
		float64(analysis.TotalOK)/float64(analysis.TotalDays)*100)
	fmt.Printf("Failed:            %d (%.1f%%)\n", analysis.TotalFailed,
		float64(analysis.TotalFailed)/float64(analysis.TotalDays)*100)
	fmt.Printf("Skip Days:         %d (lost tithi/nakshatra; informational)\n",
		analysis.TotalSkipped)
	fmt.Println()

	fmt.Println("By City:")
	var names []string
	for name := range analysis.ByCity {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := analysis.ByCity[name]
		status := "✓"
		if stats.FailedDays > 0 {
			status = "✗"
		}
		fmt.Printf("  %s %-15s %d/%d days computed, %d skip days\n",
			status, name+":", stats.TotalDays-stats.FailedDays, stats.TotalDays,
			stats.SkippedDays)
	}
	fmt.Println()
}

func printFailures(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures!")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES (City | Date | Error)")
	fmt.Println("================================================================")

	shown := 0
	for _, f := range analysis.Failures {
		if shown >= 50 {
			fmt.Printf("  ... and %d more\n", analysis.TotalFailed-50)
			break
		}
		fmt.Printf("  %s | %s | %s\n", f.City, f.Date, f.Error)
		shown++
	}

	if len(analysis.ByMonth) > 0 {
		fmt.Println()
		fmt.Println("Failures by month:")
		var months []string
		for month := range analysis.ByMonth {
			months = append(months, month)
		}
		sort.Strings(months)
		for _, month := range months {
			fmt.Printf("  %s: %d\n", month, analysis.ByMonth[month])
		}
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string    `json:"generated_at"`
		Analysis    *Analysis `json:"analysis"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Analysis:    analysis,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
