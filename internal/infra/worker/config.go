// Package worker runs the scheduled refresh: configuration, job, metrics and the
// health server of the worker process.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"maroc-actualites/internal/pkg/config"
	pkgconfig "maroc-actualites/pkg/config"
)

// WorkerConfig holds the worker's schedule and refresh target.
type WorkerConfig struct {
	// CronSchedule is a 5-field cron expression.
	// Default: "*/30 * * * *" (every 30 minutes)
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	// Default: "Africa/Casablanca"
	Timezone string

	// RefreshURL is the API refresh endpoint.
	RefreshURL string

	// RefreshSecret is sent as a bearer token. Never logged.
	RefreshSecret string

	// RefreshTimeout bounds one refresh attempt. Range: 30s-30m.
	RefreshTimeout time.Duration

	// HealthPort serves /health, /health/ready and /metrics. Range: 1024-65535.
	HealthPort int

	// RunOnStart triggers one refresh as soon as the worker is up.
	RunOnStart bool
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "*/30 * * * *",
		Timezone:       "Africa/Casablanca",
		RefreshURL:     "http://localhost:8080/api/cron/refresh",
		RefreshTimeout: 5 * time.Minute,
		HealthPort:     9091,
	}
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateURL(c.RefreshURL); err != nil {
		errs = append(errs, fmt.Errorf("refresh url: %w", err))
	}
	if err := validateRefreshTimeout(c.RefreshTimeout); err != nil {
		errs = append(errs, fmt.Errorf("refresh timeout: %w", err))
	}
	if err := validateHealthPort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

func validateRefreshTimeout(d time.Duration) error {
	return config.ValidateDuration(d, 30*time.Second, 30*time.Minute)
}

func validateHealthPort(port int) error {
	return config.ValidateIntRange(port, 1024, 65535)
}

// Location returns the schedule's time zone. Timezone has already been validated
// by LoadConfigFromEnv, so UTC is only returned for hand-built configs.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads the worker configuration. Invalid values fall back to
// their defaults with a warning and a worker_config_fallbacks_total increment;
// it never fails.
//
// Environment variables:
//   - REFRESH_CRON_SCHEDULE (default: "*/30 * * * *")
//   - WORKER_TIMEZONE (default: "Africa/Casablanca")
//   - REFRESH_URL (default: http://localhost:8080/api/cron/refresh)
//   - REFRESH_TIMEOUT (default: 5m)
//   - WORKER_HEALTH_PORT (default: 9091)
//   - REFRESH_ON_START (default: false)
//   - CRON_SECRET (default: none)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	def := DefaultConfig()
	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}

	cfg := &WorkerConfig{
		CronSchedule: config.Resolve(cm, logger, "cron_schedule",
			config.LoadEnv("REFRESH_CRON_SCHEDULE", def.CronSchedule, config.ValidateCronSchedule)),
		Timezone: config.Resolve(cm, logger, "timezone",
			config.LoadEnv("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone)),
		RefreshURL: config.Resolve(cm, logger, "refresh_url",
			config.LoadEnv("REFRESH_URL", def.RefreshURL, config.ValidateURL)),
		RefreshTimeout: config.Resolve(cm, logger, "refresh_timeout",
			config.LoadEnvDuration("REFRESH_TIMEOUT", def.RefreshTimeout, validateRefreshTimeout)),
		HealthPort: config.Resolve(cm, logger, "health_port",
			config.LoadEnvInt("WORKER_HEALTH_PORT", def.HealthPort, validateHealthPort)),
		RunOnStart: config.Resolve(cm, logger, "run_on_start",
			config.LoadEnvBool("REFRESH_ON_START", def.RunOnStart)),
		RefreshSecret: pkgconfig.GetEnvString("CRON_SECRET", ""),
	}

	if cm != nil {
		cm.RecordLoadTimestamp()
	}
	return cfg
}

// LogSummary logs the effective configuration without the secret.
func (c *WorkerConfig) LogSummary(logger *slog.Logger) {
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", c.CronSchedule),
		slog.String("timezone", c.Timezone),
		slog.String("refresh_url", c.RefreshURL),
		slog.Duration("refresh_timeout", c.RefreshTimeout),
		slog.Int("health_port", c.HealthPort),
		slog.Bool("run_on_start", c.RunOnStart),
		slog.Bool("secret_configured", c.RefreshSecret != ""))
}
