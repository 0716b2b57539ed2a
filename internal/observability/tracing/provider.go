package tracing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	pkgconfig "maroc-actualites/pkg/config"
)

// Config holds the tracer provider configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// OTLPEndpoint is the collector base URL, e.g. http://otel-collector:4318.
	// Empty disables export; spans are still created for log correlation.
	OTLPEndpoint string

	// SampleRatio is the fraction of root traces sampled, between 0 and 1.
	SampleRatio float64
}

// ConfigFromEnv reads the tracer configuration.
//
// Environment variables:
//   - OTEL_SERVICE_NAME (default: serviceName)
//   - SERVICE_VERSION (default: dev)
//   - DEPLOYMENT_ENV (default: development)
//   - OTEL_EXPORTER_OTLP_ENDPOINT (default: none)
//   - OTEL_TRACE_SAMPLE_RATIO (default: 1.0); out-of-range values keep the default
func ConfigFromEnv(serviceName string) Config {
	cfg := Config{
		ServiceName:    pkgconfig.GetEnvString("OTEL_SERVICE_NAME", serviceName),
		ServiceVersion: pkgconfig.GetEnvString("SERVICE_VERSION", "dev"),
		Environment:    pkgconfig.GetEnvString("DEPLOYMENT_ENV", "development"),
		OTLPEndpoint:   strings.TrimRight(pkgconfig.GetEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", ""), "/"),
		SampleRatio:    1.0,
	}
	if f := pkgconfig.GetEnvFloat("OTEL_TRACE_SAMPLE_RATIO", 1.0); f >= 0 && f <= 1 {
		cfg.SampleRatio = f
	}
	return cfg
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init installs the global tracer provider and W3C trace-context propagator.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("tracing: service name is required")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}
	if cfg.OTLPEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint+"/v1/traces"),
		)
		if err != nil {
			return nil, fmt.Errorf("tracing: create otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
