// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Link validation metrics (outcome, reason, latency)
//   - Upstream search metrics (calls, latency, mapped articles)
//   - Pipeline metrics (runs by outcome, filter decisions, cache lookups)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "maroc-actualites/internal/observability/metrics"
//
//	func run(ctx context.Context) {
//	    start := time.Now()
//	    // ... run the pipeline ...
//	    metrics.RecordPipelineRun("category", "live", time.Since(start))
//	}
package metrics
