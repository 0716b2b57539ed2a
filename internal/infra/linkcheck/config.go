package linkcheck

import (
	"fmt"
	"time"

	pkgconfig "maroc-actualites/pkg/config"
)

// DefaultUserAgent mimics a desktop browser. Several Moroccan publishers serve a
// challenge page or a 403 to obvious bots, which would read as an error page.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config holds the configuration for article link validation.
//
// Security settings:
//   - DenyPrivateIPs: blocks hosts resolving to private addresses (SSRF)
//   - MaxBodyBytes: bounds how much of each page is read
//   - MaxRedirects: bounds redirect chains
//
// Latency settings:
//   - Timeout: hard deadline for a single validation, including redirects and body read
type Config struct {
	// Timeout is the deadline for one validation.
	// A validation that times out is accepted (fail-open).
	// Default: 6s
	Timeout time.Duration

	// MaxBodyBytes is how much of the page is read looking for the <title> element.
	// The same bound is sent upstream as a Range header.
	// Default: 8192
	MaxBodyBytes int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Exceeding it counts as a transport error.
	// Default: 5
	MaxRedirects int

	// MaxTitleLength truncates extracted page titles, in runes.
	// Default: 200
	MaxTitleLength int

	// UserAgent sent with every validation request.
	UserAgent string

	// AcceptLanguage sent with every validation request.
	// Default: "fr-FR,fr;q=0.9"
	AcceptLanguage string

	// DenyPrivateIPs rejects links whose host resolves to a loopback, private or
	// link-local address.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns the default link validation configuration.
//
// Example:
//
//	cfg := linkcheck.DefaultConfig()
//	cfg.Timeout = 3 * time.Second
//	v := linkcheck.New(cfg)
func DefaultConfig() Config {
	return Config{
		Timeout:        6 * time.Second,
		MaxBodyBytes:   8192,
		MaxRedirects:   5,
		MaxTitleLength: 200,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: "fr-FR,fr;q=0.9",
		DenyPrivateIPs: true,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: 100ms-60s
//   - MaxBodyBytes: 512B-1MB (the title lives in the document head)
//   - MaxRedirects: 0-10
//   - MaxTitleLength: > 0
//   - UserAgent: non-empty
func (c *Config) Validate() error {
	if c.Timeout < 100*time.Millisecond || c.Timeout > time.Minute {
		return fmt.Errorf("timeout must be between 100ms and 60s, got %v", c.Timeout)
	}

	if c.MaxBodyBytes < 512 || c.MaxBodyBytes > 1024*1024 {
		return fmt.Errorf("max body bytes must be between 512 and %d, got %d", 1024*1024, c.MaxBodyBytes)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.MaxTitleLength <= 0 {
		return fmt.Errorf("max title length must be positive, got %d", c.MaxTitleLength)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset or unparseable variables keep their default; the result is then validated.
//
// Environment variables:
//   - LINK_CHECK_TIMEOUT: duration string (default: 6s)
//   - LINK_CHECK_MAX_BYTES: integer in bytes (default: 8192)
//   - LINK_CHECK_MAX_REDIRECTS: integer (default: 5)
//   - LINK_CHECK_USER_AGENT: string (default: desktop Chrome)
//   - LINK_CHECK_ACCEPT_LANGUAGE: string (default: fr-FR,fr;q=0.9)
//   - LINK_CHECK_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Timeout = pkgconfig.GetEnvDuration("LINK_CHECK_TIMEOUT", cfg.Timeout)
	cfg.MaxBodyBytes = int64(pkgconfig.GetEnvInt("LINK_CHECK_MAX_BYTES", int(cfg.MaxBodyBytes)))
	cfg.MaxRedirects = pkgconfig.GetEnvInt("LINK_CHECK_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.UserAgent = pkgconfig.GetEnvString("LINK_CHECK_USER_AGENT", cfg.UserAgent)
	cfg.AcceptLanguage = pkgconfig.GetEnvString("LINK_CHECK_ACCEPT_LANGUAGE", cfg.AcceptLanguage)
	cfg.DenyPrivateIPs = pkgconfig.GetEnvBool("LINK_CHECK_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid link check configuration: %w", err)
	}
	return cfg, nil
}
