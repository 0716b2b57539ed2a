package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	pkgconfig "maroc-actualites/pkg/config"
)

// CORSConfig holds the cross-origin policy for the front end.
type CORSConfig struct {
	// AllowedOrigins is the whitelist of origins; "*" allows any origin.
	// Empty disables CORS headers entirely.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string

	// MaxAge is how long browsers may cache a preflight, in seconds.
	MaxAge int
}

// DefaultCORSConfig returns the read-mostly API defaults with no origin allowed.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID", "X-Cron-Secret"},
		MaxAge:         86400,
	}
}

// LoadCORSConfig reads the CORS policy.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins such as https://actu.ma (default: none)
//   - CORS_MAX_AGE: preflight cache in seconds (default: 86400)
func LoadCORSConfig() (CORSConfig, error) {
	cfg := DefaultCORSConfig()
	cfg.MaxAge = pkgconfig.GetEnvInt("CORS_MAX_AGE", cfg.MaxAge)

	for _, origin := range pkgconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil) {
		if err := validateOrigin(origin); err != nil {
			return CORSConfig{}, err
		}
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
	}
	return cfg, nil
}

func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must be scheme://host[:port] only: %s", origin)
	}
	return nil
}

func (c CORSConfig) allows(origin string) bool {
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin)
}

// CORS sets Access-Control-* headers for allowed origins and answers preflight
// requests with 204. Requests from other origins pass through without CORS
// headers, so the browser blocks them.
func CORS(cfg CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || len(cfg.AllowedOrigins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !cfg.allows(origin) {
				logger.Debug("cors origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
