package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"maroc-actualites/internal/pkg/config"
)

// WorkerMetrics are the worker's Prometheus metrics.
//
// Besides the worker_config_* metrics it exposes:
//   - worker_refresh_runs_total{status}: runs by status (success, failure)
//   - worker_refresh_duration_seconds: run duration
//   - worker_refresh_categories_total{origin}: categories refreshed by origin (live, sample)
//   - worker_refresh_last_success_timestamp: Unix time of the last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	RunsTotal            *prometheus.CounterVec
	DurationSeconds      prometheus.Histogram
	CategoriesTotal      *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics on reg.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	factory := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_refresh_runs_total",
			Help: "Total number of refresh runs by status (success/failure)",
		}, []string{"status"}),

		// A refresh validates up to 8x30 links, so minutes are normal.
		DurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_refresh_duration_seconds",
			Help:    "Duration of refresh runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		CategoriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_refresh_categories_total",
			Help: "Total number of categories refreshed by origin (live/sample)",
		}, []string{"origin"}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last successful refresh run",
		}),
	}
}

func (m *WorkerMetrics) RecordJobRun(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.DurationSeconds.Observe(seconds)
}

// RecordCategories adds per-origin category counts from one run.
func (m *WorkerMetrics) RecordCategories(byOrigin map[string]int) {
	for origin, n := range byOrigin {
		m.CategoriesTotal.WithLabelValues(origin).Add(float64(n))
	}
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
