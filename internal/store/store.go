// Package store persists the location catalog the API serves cities from.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/subhashmahimaluri/panchangam/internal/config"
)

// =============================================================================
// Store Connection
// =============================================================================

// Store wraps an sqlx connection with location catalog methods. It speaks
// both SQLite and Postgres; queries are written with ? placeholders and
// rebound per driver.
type Store struct {
	db     *sqlx.DB
	driver string
	logger *slog.Logger
}

// Config holds connection options for either backend.
type Config struct {
	Driver          string        // sqlite3 or postgres
	DSN             string        // file path (sqlite3) or connection URL (postgres)
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns pool settings suited to the driver.
//
// SQLite allows one writer at a time, so the pool is pinned to a single
// connection; WAL mode and a busy timeout (set in the DSN) cover concurrent
// readers. Postgres handles real concurrency and gets a wider pool.
func DefaultConfig(driver, dsn string) Config {
	cfg := Config{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}
	if driver == config.DriverSQLite {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}
	return cfg
}

// Open connects to the configured database and verifies the connection.
//
// The caller is responsible for calling Close() when done.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := cfg.DSN
	if cfg.Driver == config.DriverSQLite {
		// Ensure the directory exists
		if dir := filepath.Dir(cfg.DSN); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}

		// _journal_mode=WAL: concurrent readers while writing
		// _foreign_keys=ON: enforce referential integrity
		// _busy_timeout=5000: wait up to 5s if the database is locked
		dsn = fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000", cfg.DSN)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected",
		slog.String("driver", cfg.Driver),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return &Store{
		db:     db,
		driver: cfg.Driver,
		logger: logger,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("closing database connection")
	return s.db.Close()
}

// Health checks if the database connection is healthy.
func (s *Store) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}

	return nil
}

// =============================================================================
// Migrations
// =============================================================================

// Migrate runs all pending migrations inside a transaction, forward-only:
// versions already listed in schema_migrations are skipped, new ones are
// applied in order. Returns the number applied.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	s.logger.Info("running database migrations")

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// applied_at is recorded from Go so the schema stays portable across
	// both backends.
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create schema_migrations table: %w", err)
	}

	var versions []int
	if err := tx.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return 0, fmt.Errorf("query applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	count := 0
	for version := 1; version <= len(migrationsSQL); version++ {
		if applied[version] {
			s.logger.Debug("migration already applied", slog.Int("version", version))
			continue
		}

		content, ok := migrationsSQL[version]
		if !ok {
			return count, fmt.Errorf("migration %d not found", version)
		}

		s.logger.Info("applying migration", slog.Int("version", version))

		if _, err := tx.ExecContext(ctx, content); err != nil {
			return count, fmt.Errorf("execute migration %d: %w", version, err)
		}

		_, err = tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"),
			version, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return count, fmt.Errorf("record migration %d: %w", version, err)
		}

		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit migrations: %w", err)
	}

	s.logger.Info("migrations complete",
		slog.Int("applied", count),
		slog.Int("total", len(migrationsSQL)),
	)

	return count, nil
}

// =============================================================================
// Transaction Helpers
// =============================================================================

// WithTx executes a function within a transaction. If the function returns
// an error, the transaction is rolled back; otherwise it is committed.
func (s *Store) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// =============================================================================
// Error Types
// =============================================================================

// ErrNotFound is returned when a requested record doesn't exist.
var ErrNotFound = errors.New("record not found")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
