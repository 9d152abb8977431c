// Package cache provides an optional Redis-backed cache for computed days.
//
// Computing a full day touches hundreds of ephemeris samples, and the result
// for a given date and place never changes, which makes it a natural cache
// entry. The cache is strictly best-effort: when Redis is not configured or
// unreachable, every operation degrades to a miss and the API computes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds memory use rather than freshness; entries are immutable.
const DefaultTTL = 24 * time.Hour

// ErrMiss is returned when a key is absent or the cache is disabled.
var ErrMiss = errors.New("cache miss")

// Cache wraps a Redis client. A zero-address Cache is valid and disabled.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New builds a cache against the given Redis address. An empty address
// returns a disabled cache whose Get always misses and whose Set is a no-op.
func New(addr, password string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{ttl: DefaultTTL, logger: logger}
	if addr == "" {
		return c
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return c
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Ping verifies the Redis connection. Disabled caches report no error.
func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns the cached value for key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, ErrMiss
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		// Treat a broken cache as a miss; the caller recomputes.
		c.logger.Warn("cache get failed", slog.String("key", key), slog.Any("error", err))
		return nil, ErrMiss
	}

	return val, nil
}

// Set stores value under key with the cache TTL. Failures are logged and
// swallowed; a cache write must never fail a request.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Key builds the cache key for a computed day. Coordinates are rounded to
// four decimals (about 11 m), close enough that nearby requests share an
// entry without two cities ever colliding.
func Key(date string, latitude, longitude float64) string {
	return fmt.Sprintf("panchangam:%s:%.4f:%.4f", date, latitude, longitude)
}
