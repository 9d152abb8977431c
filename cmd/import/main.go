// Command import loads a city catalog CSV into the location database.
//
// Usage:
//
//	go run ./cmd/import -csv data/cities.csv -db data/panchangam.db
//
// This tool:
// 1. Creates/opens the database
// 2. Runs migrations to ensure schema is current
// 3. Parses the CSV file (header row, then name,latitude,longitude,timezone)
// 4. Upserts all cities in a single transaction
//
// The import is idempotent - rows are keyed by the slug derived from the
// name, so re-running refreshes coordinates instead of failing.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/subhashmahimaluri/panchangam/internal/config"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

func main() {
	// Parse command line flags
	csvPath := flag.String("csv", "data/cities.csv", "Path to city CSV file")
	dbPath := flag.String("db", "data/panchangam.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*csvPath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(csvPath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse the CSV
	// =========================================================================
	logger.Info("reading CSV file", slog.String("path", csvPath))

	cities, err := readCities(csvPath)
	if err != nil {
		return err
	}

	logger.Info("parsed CSV", slog.Int("cities", len(cities)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	st, err := store.Open(store.DefaultConfig(config.DriverSQLite, dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	migrated, err := st.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Upsert cities in a transaction
	// =========================================================================
	logger.Info("starting import")

	err = st.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i, city := range cities {
			if err := store.UpsertLocationTx(ctx, tx, city); err != nil {
				return fmt.Errorf("upsert city %d (%s): %w", i+1, city.Name, err)
			}
			logger.Debug("imported city", slog.String("slug", store.Slugify(city.Name)))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	count, err := st.CountLocations(ctx)
	if err != nil {
		return fmt.Errorf("count locations: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("imported", len(cities)),
		slog.Int("catalog_size", count),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Cities imported:   %d\n", len(cities))
	fmt.Printf("Catalog size:      %d\n", count)
	fmt.Printf("Time elapsed:      %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// readCities parses and validates the catalog CSV. Every row must carry a
// name, coordinates in range, and a resolvable IANA timezone.
func readCities(path string) ([]store.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	want := []string{"name", "latitude", "longitude", "timezone"}
	if len(header) != len(want) {
		return nil, fmt.Errorf("CSV header has %d columns, want %d (%s)",
			len(header), len(want), strings.Join(want, ","))
	}
	for i, col := range want {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return nil, fmt.Errorf("CSV column %d is %q, want %q", i+1, header[i], col)
		}
	}

	var cities []store.Location
	for row := 2; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", row, err)
		}

		city, err := parseCity(record)
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", row, err)
		}
		cities = append(cities, city)
	}

	if len(cities) == 0 {
		return nil, fmt.Errorf("CSV file has no city rows")
	}

	return cities, nil
}

func parseCity(record []string) (store.Location, error) {
	var city store.Location

	city.Name = strings.TrimSpace(record[0])
	if city.Name == "" {
		return city, fmt.Errorf("name is empty")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return city, fmt.Errorf("latitude %q: %w", record[1], err)
	}
	if lat < -90 || lat > 90 {
		return city, fmt.Errorf("latitude %g out of range [-90, 90]", lat)
	}
	city.Latitude = lat

	lon, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return city, fmt.Errorf("longitude %q: %w", record[2], err)
	}
	if lon < -180 || lon > 180 {
		return city, fmt.Errorf("longitude %g out of range [-180, 180]", lon)
	}
	city.Longitude = lon

	city.Timezone = strings.TrimSpace(record[3])
	if _, err := time.LoadLocation(city.Timezone); err != nil {
		return city, fmt.Errorf("timezone %q: %w", city.Timezone, err)
	}

	return city, nil
}
