package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/subhashmahimaluri/panchangam/internal/config"
)

// testStore creates a migrated in-memory database for testing.
func testStore(t *testing.T) *Store {
	t.Helper()

	cfg := Config{
		Driver:          config.DriverSQLite,
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	s, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}

	ctx := context.Background()
	if _, err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestOpen(t *testing.T) {
	s := testStore(t)

	ctx := context.Background()
	if err := s.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Migrations ran in testStore; running again should be a no-op
	count, err := s.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

func TestSeededCities(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	count, err := s.CountLocations(ctx)
	if err != nil {
		t.Fatalf("CountLocations() error = %v", err)
	}
	if count != 6 {
		t.Errorf("CountLocations() = %d, want 6 seeded cities", count)
	}

	loc, err := s.GetLocation(ctx, "bengaluru")
	if err != nil {
		t.Fatalf("GetLocation(bengaluru) error = %v", err)
	}
	if loc.Latitude != 12.9719 || loc.Longitude != 77.593 {
		t.Errorf("bengaluru at (%f, %f), want (12.9719, 77.593)", loc.Latitude, loc.Longitude)
	}
	if loc.Timezone != "Asia/Kolkata" {
		t.Errorf("bengaluru timezone = %q, want Asia/Kolkata", loc.Timezone)
	}

	ny, err := s.GetLocation(ctx, "new-york")
	if err != nil {
		t.Fatalf("GetLocation(new-york) error = %v", err)
	}
	if ny.Name != "New York" || ny.Timezone != "America/New_York" {
		t.Errorf("new-york = %+v", ny)
	}
}

func TestGetLocation_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetLocation(context.Background(), "atlantis")
	if !IsNotFound(err) {
		t.Errorf("GetLocation() error = %v, want ErrNotFound", err)
	}
}

func TestLookupCity(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Client-facing names come in all sorts of shapes
	for _, name := range []string{"New York", "new york", "NEW YORK", "new-york"} {
		loc, err := s.LookupCity(ctx, name)
		if err != nil {
			t.Errorf("LookupCity(%q) error = %v", name, err)
			continue
		}
		if loc.Slug != "new-york" {
			t.Errorf("LookupCity(%q) = %q, want new-york", name, loc.Slug)
		}
	}

	if _, err := s.LookupCity(ctx, "Gotham"); !IsNotFound(err) {
		t.Errorf("LookupCity(Gotham) error = %v, want ErrNotFound", err)
	}
}

func TestUpsertLocation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	loc := Location{
		Name:      "Port of Spain",
		Latitude:  10.6596,
		Longitude: -61.5086,
		Timezone:  "America/Port_of_Spain",
	}
	if err := s.UpsertLocation(ctx, loc); err != nil {
		t.Fatalf("UpsertLocation() insert error = %v", err)
	}

	got, err := s.GetLocation(ctx, "port-of-spain")
	if err != nil {
		t.Fatalf("GetLocation() after insert error = %v", err)
	}
	if got.Latitude != 10.6596 {
		t.Errorf("latitude = %f, want 10.6596", got.Latitude)
	}

	// Updating the same slug replaces the row
	loc.Latitude = 10.66
	if err := s.UpsertLocation(ctx, loc); err != nil {
		t.Fatalf("UpsertLocation() update error = %v", err)
	}

	got, err = s.GetLocation(ctx, "port-of-spain")
	if err != nil {
		t.Fatalf("GetLocation() after update error = %v", err)
	}
	if got.Latitude != 10.66 {
		t.Errorf("latitude after update = %f, want 10.66", got.Latitude)
	}

	count, err := s.CountLocations(ctx)
	if err != nil {
		t.Fatalf("CountLocations() error = %v", err)
	}
	if count != 7 {
		t.Errorf("CountLocations() = %d, want 7 (no duplicate row)", count)
	}
}

func TestUpsertLocation_NoName(t *testing.T) {
	s := testStore(t)

	err := s.UpsertLocation(context.Background(), Location{Latitude: 1, Longitude: 2})
	if err == nil {
		t.Error("UpsertLocation() with no name should fail")
	}
}

func TestListLocations(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	locs, err := s.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}

	if len(locs) != 6 {
		t.Fatalf("ListLocations() returned %d, want 6", len(locs))
	}

	// Ordered by display name
	for i := 1; i < len(locs); i++ {
		if locs[i-1].Name > locs[i].Name {
			t.Errorf("locations out of order: %q before %q", locs[i-1].Name, locs[i].Name)
		}
	}
	if locs[0].Name != "Bengaluru" {
		t.Errorf("first location = %q, want Bengaluru", locs[0].Name)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		loc := Location{Name: "Nowhere", Latitude: 0, Longitude: 0, Timezone: "UTC"}
		if err := UpsertLocationTx(ctx, tx, loc); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	// The upsert must not have survived the rollback
	if _, err := s.GetLocation(ctx, "nowhere"); !IsNotFound(err) {
		t.Errorf("location exists after rollback, error = %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bengaluru", "bengaluru"},
		{"New York", "new-york"},
		{"NEW  YORK", "new-york"},
		{"  Port of Spain ", "port-of-spain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
