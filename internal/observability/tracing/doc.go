// Package tracing wires OpenTelemetry tracing.
//
// Init installs the global tracer provider and the W3C propagator. Middleware opens
// one server span per HTTP request, and the news pipeline opens a child span per
// entry point through GetTracer. Spans are exported over OTLP/HTTP when an endpoint
// is configured; otherwise they are only used to correlate logs by trace id.
//
// Example usage:
//
//	shutdown, err := tracing.Init(ctx, tracing.ConfigFromEnv("maroc-actualites-api"))
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = shutdown(context.Background()) }()
package tracing
