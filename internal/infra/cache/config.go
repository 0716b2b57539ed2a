package cache

import (
	"fmt"
	"time"

	pkgconfig "maroc-actualites/pkg/config"
)

// Config holds per-kind time-to-live and size bounds for the result cache.
type Config struct {
	// Enabled turns the cache on.
	// Default: true
	Enabled bool

	// LatestTTL is how long the front-page result is reused.
	// Default: 15m
	LatestTTL time.Duration

	// CategoryTTL is how long a category result is reused.
	// Default: 30m
	CategoryTTL time.Duration

	// SearchTTL is how long a search result is reused.
	// Default: 30m
	SearchTTL time.Duration

	// MaxSearchEntries bounds the number of distinct cached search queries.
	// Default: 256
	MaxSearchEntries int
}

// TTL bounds accepted by Validate.
const (
	minTTL = time.Millisecond
	maxTTL = 24 * time.Hour
)

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		LatestTTL:        15 * time.Minute,
		CategoryTTL:      30 * time.Minute,
		SearchTTL:        30 * time.Minute,
		MaxSearchEntries: 256,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	ttls := []struct {
		name string
		ttl  time.Duration
	}{
		{"latest TTL", c.LatestTTL},
		{"category TTL", c.CategoryTTL},
		{"search TTL", c.SearchTTL},
	}
	for _, t := range ttls {
		if err := pkgconfig.ValidateDurationRange(t.name, t.ttl, minTTL, maxTTL); err != nil {
			return err
		}
	}
	if c.MaxSearchEntries < 1 {
		return fmt.Errorf("max search entries must be positive, got %d", c.MaxSearchEntries)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - CACHE_ENABLED: "true" or "false" (default: true)
//   - CACHE_LATEST_TTL: duration string (default: 15m)
//   - CACHE_CATEGORY_TTL: duration string (default: 30m)
//   - CACHE_SEARCH_TTL: duration string (default: 30m)
//   - CACHE_MAX_SEARCH_ENTRIES: integer (default: 256)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Enabled = pkgconfig.GetEnvBool("CACHE_ENABLED", cfg.Enabled)
	cfg.LatestTTL = pkgconfig.GetEnvDuration("CACHE_LATEST_TTL", cfg.LatestTTL)
	cfg.CategoryTTL = pkgconfig.GetEnvDuration("CACHE_CATEGORY_TTL", cfg.CategoryTTL)
	cfg.SearchTTL = pkgconfig.GetEnvDuration("CACHE_SEARCH_TTL", cfg.SearchTTL)
	cfg.MaxSearchEntries = pkgconfig.GetEnvInt("CACHE_MAX_SEARCH_ENTRIES", cfg.MaxSearchEntries)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid cache configuration: %w", err)
	}
	return cfg, nil
}
