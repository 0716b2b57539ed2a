package config

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks configuration loads and fallbacks for one component.
//
// Metrics (prefixed with the component name):
//   - {component}_config_load_timestamp: Unix time of the last load
//   - {component}_config_fallbacks_total{field}: fallbacks applied per field
//   - {component}_config_fallback_active{field}: 1 while a field runs on its default
type ConfigMetrics struct {
	LoadTimestamp  prometheus.Gauge
	FallbacksTotal *prometheus.CounterVec
	FallbackActive *prometheus.GaugeVec

	componentName string
}

// NewConfigMetrics registers the metrics for componentName on reg.
func NewConfigMetrics(reg prometheus.Registerer, componentName string) *ConfigMetrics {
	factory := promauto.With(reg)
	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallbacks by field", componentName),
		}, []string{"field"}),
		FallbackActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if the %s configuration field is running on its default", componentName),
		}, []string{"field"}),
		componentName: componentName,
	}
}

// RecordLoadTimestamp sets the load timestamp to now.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// Observe records the fallback state of one field.
func (m *ConfigMetrics) Observe(field string, fallback bool) {
	if fallback {
		m.FallbacksTotal.WithLabelValues(field).Inc()
		m.FallbackActive.WithLabelValues(field).Set(1)
		return
	}
	m.FallbackActive.WithLabelValues(field).Set(0)
}

// Resolve logs a fallback warning, records the field's state on m (when non-nil)
// and returns the loaded value.
//
// Example:
//
//	schedule := config.Resolve(m, logger, "cron_schedule",
//	    config.LoadEnv("REFRESH_CRON_SCHEDULE", "*/30 * * * *", config.ValidateCronSchedule))
func Resolve[T any](m *ConfigMetrics, logger *slog.Logger, field string, res LoadResult[T]) T {
	if res.FallbackApplied && logger != nil {
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", res.Warning))
	}
	if m != nil {
		m.Observe(field, res.FallbackApplied)
	}
	return res.Value
}
