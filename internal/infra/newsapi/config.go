package newsapi

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "maroc-actualites/pkg/config"
)

// DefaultBaseURL is the upstream "everything" search endpoint.
const DefaultBaseURL = "https://newsapi.org/v2/everything"

// Config holds the upstream search client configuration.
type Config struct {
	// APIKey is the upstream credential. Empty means no credential.
	APIKey string

	// BaseURL is the search endpoint.
	// Default: https://newsapi.org/v2/everything
	BaseURL string

	// Timeout bounds one upstream call, including the body read.
	// Default: 10s
	Timeout time.Duration

	// Language restricts results to one language.
	// Default: "fr"
	Language string

	// NationalKeyword is the latest-news query and the search query prefix.
	// Default: "Maroc"
	NationalKeyword string

	// RequestsPerMinute is the sustained client-side request rate.
	// The free upstream tier allows 100 requests a day, so bursts matter more than rate.
	// Default: 30
	RequestsPerMinute int

	// Burst is the number of requests allowed at once.
	// Default: 10 (one refresh run issues 9)
	Burst int

	// MaxResponseBytes bounds the decoded response body.
	// Default: 4MB
	MaxResponseBytes int64
}

// DefaultConfig returns the default client configuration, without a credential.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           10 * time.Second,
		Language:          "fr",
		NationalKeyword:   "Maroc",
		RequestsPerMinute: 30,
		Burst:             10,
		MaxResponseBytes:  4 << 20,
	}
}

// HasCredential reports whether an API key is configured.
func (c Config) HasCredential() bool {
	return c.APIKey != ""
}

// Validate checks the configuration. The API key is not required here; callers
// decide what to do without one.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 || c.Timeout > 2*time.Minute {
		return fmt.Errorf("timeout must be between 0 and 2m, got %v", c.Timeout)
	}
	if c.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be positive, got %d", c.Burst)
	}
	if c.MaxResponseBytes < 1024 {
		return fmt.Errorf("max response bytes must be at least 1024, got %d", c.MaxResponseBytes)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - NEWS_API_KEY: upstream credential (default: none)
//   - NEWS_API_BASE_URL: search endpoint
//   - NEWS_API_TIMEOUT: duration string (default: 10s)
//   - NEWS_API_LANGUAGE: language code (default: fr)
//   - NEWS_API_NATIONAL_KEYWORD: latest query and search prefix (default: Maroc)
//   - NEWS_API_REQUESTS_PER_MINUTE: integer (default: 30)
//   - NEWS_API_BURST: integer (default: 10)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.APIKey = pkgconfig.GetEnvString("NEWS_API_KEY", "")
	cfg.BaseURL = pkgconfig.GetEnvString("NEWS_API_BASE_URL", cfg.BaseURL)
	cfg.Timeout = pkgconfig.GetEnvDuration("NEWS_API_TIMEOUT", cfg.Timeout)
	cfg.Language = pkgconfig.GetEnvString("NEWS_API_LANGUAGE", cfg.Language)
	cfg.NationalKeyword = pkgconfig.GetEnvString("NEWS_API_NATIONAL_KEYWORD", cfg.NationalKeyword)
	cfg.RequestsPerMinute = pkgconfig.GetEnvInt("NEWS_API_REQUESTS_PER_MINUTE", cfg.RequestsPerMinute)
	cfg.Burst = pkgconfig.GetEnvInt("NEWS_API_BURST", cfg.Burst)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid news api configuration: %w", err)
	}
	return cfg, nil
}
