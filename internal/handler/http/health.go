// Package http holds the API's cross-cutting middleware, health checks and
// metrics endpoint. Route handlers live in subpackages.
package http

import (
	"net/http"
	"time"

	"maroc-actualites/internal/handler/http/respond"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Mode      string                 `json:"mode"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerReporter exposes an upstream client's circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

// HealthHandler reports whether the API is serving live or sample news.
//
// The API stays up whenever the sample set is loaded, so an open upstream
// breaker degrades the status but keeps 200; only a missing sample set is
// unhealthy.
type HealthHandler struct {
	Version string

	// Upstream is nil when no upstream credential is configured.
	Upstream BreakerReporter

	// SampleCount is the number of sample articles available for fallback.
	SampleCount int

	Now func() time.Time
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	checks := map[string]CheckStatus{
		"upstream": h.checkUpstream(),
		"samples":  h.checkSamples(),
	}

	status := statusHealthy
	code := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case statusUnhealthy:
			status = statusUnhealthy
			code = http.StatusServiceUnavailable
		case statusDegraded:
			if status == statusHealthy {
				status = statusDegraded
			}
		}
	}

	mode := "sample"
	if h.Upstream != nil {
		mode = "live"
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Mode:      mode,
		Checks:    checks,
	})
}

func (h *HealthHandler) checkUpstream() CheckStatus {
	if h.Upstream == nil {
		return CheckStatus{Status: statusHealthy, Message: "no credential configured, serving samples"}
	}

	state := h.Upstream.BreakerState()
	details := map[string]any{"circuit_breaker": state}
	switch state {
	case "open":
		return CheckStatus{Status: statusDegraded, Message: "circuit breaker open, serving samples", Details: details}
	case "half-open":
		return CheckStatus{Status: statusDegraded, Message: "circuit breaker probing upstream", Details: details}
	default:
		return CheckStatus{Status: statusHealthy, Details: details}
	}
}

func (h *HealthHandler) checkSamples() CheckStatus {
	if h.SampleCount == 0 {
		return CheckStatus{Status: statusUnhealthy, Message: "sample set is empty"}
	}
	return CheckStatus{Status: statusHealthy, Details: map[string]any{"articles": h.SampleCount}}
}

// ReadyHandler answers 200 once the fallback sample set is loaded.
func ReadyHandler(sampleCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if sampleCount == 0 {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// LiveHandler answers 200 while the process is running.
func LiveHandler(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
