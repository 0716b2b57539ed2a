// Package observability groups the logging, metrics, tracing and freshness
// objective packages shared by the API server and the refresh worker.
//
// Subpackages:
//   - logging: slog setup and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP, validation and upstream calls
//   - slo: live coverage and link validity objectives per refresh run
//   - tracing: OpenTelemetry provider and HTTP middleware
package observability
