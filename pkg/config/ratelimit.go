package config

import (
	"log/slog"

	"maroc-actualites/pkg/ratelimit"
)

// LoadRateLimitConfig loads the per-client API rate limit from the environment.
//
// Environment variables:
//   - RATELIMIT_ENABLED: enable/disable rate limiting (default: true)
//   - RATELIMIT_LIMIT: requests per window once the burst is spent (default: 60)
//   - RATELIMIT_WINDOW: window for RATELIMIT_LIMIT (default: 1m)
//   - RATELIMIT_BURST: back-to-back requests allowed to a fresh client (default: 20)
//   - RATELIMIT_MAX_KEYS: maximum clients tracked in memory (default: 10000)
//   - RATELIMIT_IDLE_TTL: forget a client after this much inactivity (default: 10m)
//
// An invalid combination is logged and replaced by ratelimit.DefaultConfig; the
// enabled flag is kept.
func LoadRateLimitConfig() ratelimit.Config {
	def := ratelimit.DefaultConfig()

	cfg := ratelimit.Config{
		Enabled: GetEnvBool("RATELIMIT_ENABLED", def.Enabled),
		Limit:   GetEnvInt("RATELIMIT_LIMIT", def.Limit),
		Window:  GetEnvDuration("RATELIMIT_WINDOW", def.Window),
		Burst:   GetEnvInt("RATELIMIT_BURST", def.Burst),
		MaxKeys: GetEnvInt("RATELIMIT_MAX_KEYS", def.MaxKeys),
		IdleTTL: GetEnvDuration("RATELIMIT_IDLE_TTL", def.IdleTTL),
	}

	if err := cfg.Validate(); err != nil {
		slog.Warn("rate limit configuration validation failed, applying defaults",
			slog.String("error", err.Error()))
		def.Enabled = cfg.Enabled
		return def
	}
	return cfg
}
