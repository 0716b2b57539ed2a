package ratelimit

import (
	"fmt"
	"time"
)

// Config contains the configuration for a keyed token-bucket limiter.
type Config struct {
	// Enabled is the feature flag for rate limiting.
	Enabled bool

	// Limit is the number of requests a key may make per Window once its burst is spent.
	Limit int

	// Window is the period Limit applies to.
	Window time.Duration

	// Burst is the number of requests a fresh key may make back to back.
	Burst int

	// MaxKeys bounds the number of keys kept in memory. The least recently
	// used key is evicted first.
	MaxKeys int

	// IdleTTL drops a key that has not been seen for this long.
	IdleTTL time.Duration
}

// DefaultConfig returns the limits applied to the public API: 60 requests per
// minute per client with a burst of 20.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Limit:   60,
		Window:  time.Minute,
		Burst:   20,
		MaxKeys: 10000,
		IdleTTL: 10 * time.Minute,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %v", c.Window)
	}
	if c.Burst <= 0 {
		return fmt.Errorf("burst must be positive, got %d", c.Burst)
	}
	if c.MaxKeys <= 0 {
		return fmt.Errorf("max keys must be positive, got %d", c.MaxKeys)
	}
	if c.IdleTTL <= 0 {
		return fmt.Errorf("idle ttl must be positive, got %v", c.IdleTTL)
	}
	return nil
}
