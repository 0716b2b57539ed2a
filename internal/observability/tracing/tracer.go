package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "maroc-actualites"

// GetTracer returns the application tracer from the current global provider.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "news.Latest")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
