package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Location is one row of the city catalog.
type Location struct {
	Slug      string  `db:"slug" json:"slug"`
	Name      string  `db:"name" json:"name"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	Timezone  string  `db:"timezone" json:"timezone"`
}

// Slugify converts a display name to a catalog key: lowercased, spaces
// collapsed to single hyphens. "New York" becomes "new-york".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// GetLocation retrieves one location by slug.
// Returns ErrNotFound if the slug isn't in the catalog.
func (s *Store) GetLocation(ctx context.Context, slug string) (*Location, error) {
	var loc Location
	err := s.db.GetContext(ctx, &loc, s.db.Rebind(`
		SELECT slug, name, latitude, longitude, timezone
		FROM locations
		WHERE slug = ?
	`), slug)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query location %q: %w", slug, err)
	}

	return &loc, nil
}

// LookupCity resolves a client-facing city name ("New York", "bengaluru")
// to its catalog entry.
func (s *Store) LookupCity(ctx context.Context, name string) (*Location, error) {
	return s.GetLocation(ctx, Slugify(name))
}

// ListLocations returns the whole catalog ordered by display name.
func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	var locs []Location
	err := s.db.SelectContext(ctx, &locs, `
		SELECT slug, name, latitude, longitude, timezone
		FROM locations
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	return locs, nil
}

// CountLocations returns the catalog size.
func (s *Store) CountLocations(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM locations"); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return count, nil
}

// UpsertLocation inserts or replaces a catalog entry keyed by slug.
// The slug is derived from the name when empty.
func (s *Store) UpsertLocation(ctx context.Context, loc Location) error {
	return upsertLocation(ctx, s.db, loc)
}

// UpsertLocationTx is the transactional variant, for bulk imports.
func UpsertLocationTx(ctx context.Context, tx *sqlx.Tx, loc Location) error {
	return upsertLocation(ctx, tx, loc)
}

func upsertLocation(ctx context.Context, ext sqlx.ExtContext, loc Location) error {
	if loc.Slug == "" {
		loc.Slug = Slugify(loc.Name)
	}
	if loc.Slug == "" {
		return errors.New("location has no name")
	}

	_, err := ext.ExecContext(ctx, ext.Rebind(`
		INSERT INTO locations (slug, name, latitude, longitude, timezone)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone
	`), loc.Slug, loc.Name, loc.Latitude, loc.Longitude, loc.Timezone)

	if err != nil {
		return fmt.Errorf("upsert location %q: %w", loc.Slug, err)
	}

	return nil
}
