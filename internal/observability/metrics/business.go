package metrics

import (
	"time"
)

// RecordLinkValidation records the outcome of a single link check.
//
// Parameters:
//   - result: "valid", "invalid", "accepted_on_error" or "cancelled"
//   - reason: short reason code (e.g. "http_status", "error_keyword", "timeout")
//   - duration: time spent on the check, including the network fetch
func RecordLinkValidation(result, reason string, duration time.Duration) {
	LinkValidationsTotal.WithLabelValues(result, reason).Inc()
	LinkValidationDuration.Observe(duration.Seconds())
}

// RecordUpstreamRequest records one upstream search call.
// Kind is "category", "latest" or "search".
func RecordUpstreamRequest(kind string, success bool, duration time.Duration, articles int) {
	result := "success"
	if !success {
		result = "failure"
	}
	UpstreamRequestsTotal.WithLabelValues(kind, result).Inc()
	UpstreamRequestDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if articles > 0 {
		UpstreamArticlesTotal.WithLabelValues(kind).Add(float64(articles))
	}
}

// RecordPipelineRun records a completed orchestrator run.
func RecordPipelineRun(entry, outcome string, duration time.Duration) {
	PipelineRunsTotal.WithLabelValues(entry, outcome).Inc()
	PipelineDuration.WithLabelValues(entry).Observe(duration.Seconds())
}

// RecordFilterDecisions records how many candidates a batch filter kept and rejected.
func RecordFilterDecisions(kept, rejected int) {
	if kept > 0 {
		FilterArticlesTotal.WithLabelValues("kept").Add(float64(kept))
	}
	if rejected > 0 {
		FilterArticlesTotal.WithLabelValues("rejected").Add(float64(rejected))
	}
}

// RecordCacheLookup records a cache hit or miss for the given result kind.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// RecordRateLimitDecision records whether a request passed the per-client limiter.
func RecordRateLimitDecision(allowed bool) {
	result := "allowed"
	if !allowed {
		result = "denied"
	}
	RateLimitDecisionsTotal.WithLabelValues(result).Inc()
}
