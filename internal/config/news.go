// Package config assembles the API process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"maroc-actualites/internal/infra/cache"
	"maroc-actualites/internal/infra/linkcheck"
	"maroc-actualites/internal/infra/newsapi"
	"maroc-actualites/internal/usecase/news"
	pkgconfig "maroc-actualites/pkg/config"
	"maroc-actualites/pkg/ratelimit"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration

	// MaxBodyBytes limits request bodies. Default: 1 MiB
	MaxBodyBytes int64
}

// NewsConfig is the complete configuration of the API process.
type NewsConfig struct {
	Server    ServerConfig
	Pipeline  news.Config
	NewsAPI   newsapi.Config
	LinkCheck linkcheck.Config
	Cache     cache.Config
	RateLimit ratelimit.Config

	// CronSecret guards the refresh endpoint. Empty leaves it open.
	CronSecret string
}

// DefaultServerConfig returns the default HTTP server settings.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Refresh validates every category, which takes far longer than a page read.
		WriteTimeout:    3 * time.Minute,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// LoadNewsConfig reads the whole API configuration.
//
// Invalid sections are logged and replaced by their defaults so the process
// always starts; the upstream credential and the refresh secret are kept
// regardless.
//
// Environment variables (besides those documented on each section's loader):
//   - HTTP_ADDR (default: :8080), HTTP_SHUTDOWN_TIMEOUT (default: 30s)
//   - NEWS_RESULT_CAP (10), NEWS_MIN_VALID_RESULTS (6), NEWS_OVERFETCH_FACTOR (3)
//   - NEWS_RECENCY_WINDOW (144h), NEWS_VALIDATION_PARALLELISM (30),
//     NEWS_REFRESH_PARALLELISM (2), NEWS_VALIDATE_SEARCH (false)
//   - CRON_SECRET (default: none)
func LoadNewsConfig() *NewsConfig {
	cfg := &NewsConfig{
		Server:     loadServerConfig(),
		Pipeline:   loadPipelineConfig(),
		RateLimit:  pkgconfig.LoadRateLimitConfig(),
		CronSecret: pkgconfig.GetEnvString("CRON_SECRET", ""),
	}

	apiCfg, err := newsapi.LoadConfigFromEnv()
	if err != nil {
		warnDefaults("newsapi", err)
		key := apiCfg.APIKey
		apiCfg = newsapi.DefaultConfig()
		apiCfg.APIKey = key
	}
	cfg.NewsAPI = apiCfg

	linkCfg, err := linkcheck.LoadConfigFromEnv()
	if err != nil {
		warnDefaults("linkcheck", err)
		linkCfg = linkcheck.DefaultConfig()
	}
	cfg.LinkCheck = linkCfg

	cacheCfg, err := cache.LoadConfigFromEnv()
	if err != nil {
		warnDefaults("cache", err)
		cacheCfg = cache.DefaultConfig()
	}
	cfg.Cache = cacheCfg

	return cfg
}

// LogSummary logs the effective configuration without secrets.
func (c *NewsConfig) LogSummary(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("addr", c.Server.Addr),
		slog.Bool("upstream_credential", c.NewsAPI.HasCredential()),
		slog.Bool("cron_secret", c.CronSecret != ""),
		slog.Int("result_cap", c.Pipeline.ResultCap),
		slog.Int("min_valid_results", c.Pipeline.MinValidResults),
		slog.String("recency_window", c.Pipeline.RecencyWindow.String()),
		slog.Bool("validate_search", c.Pipeline.ValidateSearch),
		slog.Bool("cache_enabled", c.Cache.Enabled),
		slog.Bool("ratelimit_enabled", c.RateLimit.Enabled))
}

func loadServerConfig() ServerConfig {
	def := DefaultServerConfig()
	cfg := def
	cfg.Addr = pkgconfig.GetEnvString("HTTP_ADDR", def.Addr)
	cfg.ShutdownTimeout = pkgconfig.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", def.ShutdownTimeout)
	cfg.WriteTimeout = pkgconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", def.WriteTimeout)
	if cfg.ShutdownTimeout <= 0 || cfg.WriteTimeout <= 0 {
		warnDefaults("server", fmt.Errorf("timeouts must be positive"))
		cfg.ShutdownTimeout = def.ShutdownTimeout
		cfg.WriteTimeout = def.WriteTimeout
	}
	return cfg
}

func loadPipelineConfig() news.Config {
	def := news.DefaultConfig()
	cfg := news.Config{
		ResultCap:             pkgconfig.GetEnvInt("NEWS_RESULT_CAP", def.ResultCap),
		MinValidResults:       pkgconfig.GetEnvInt("NEWS_MIN_VALID_RESULTS", def.MinValidResults),
		OverFetchFactor:       pkgconfig.GetEnvInt("NEWS_OVERFETCH_FACTOR", def.OverFetchFactor),
		RecencyWindow:         pkgconfig.GetEnvDuration("NEWS_RECENCY_WINDOW", def.RecencyWindow),
		ValidationParallelism: pkgconfig.GetEnvInt("NEWS_VALIDATION_PARALLELISM", def.ValidationParallelism),
		RefreshParallelism:    pkgconfig.GetEnvInt("NEWS_REFRESH_PARALLELISM", def.RefreshParallelism),
		ValidateSearch:        pkgconfig.GetEnvBool("NEWS_VALIDATE_SEARCH", def.ValidateSearch),
	}
	if err := cfg.Validate(); err != nil {
		warnDefaults("pipeline", err)
		return def
	}
	return cfg
}

func warnDefaults(section string, err error) {
	slog.Warn("invalid configuration, using defaults",
		slog.String("section", section),
		slog.String("error", err.Error()))
}
