package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantName  string
		wantRatio float64
		wantEP    string
	}{
		{
			name:      "defaults",
			env:       map[string]string{},
			wantName:  "maroc-actualites-api",
			wantRatio: 1.0,
		},
		{
			name: "overrides",
			env: map[string]string{
				"OTEL_SERVICE_NAME":           "news-api",
				"OTEL_TRACE_SAMPLE_RATIO":     "0.25",
				"OTEL_EXPORTER_OTLP_ENDPOINT": "http://collector:4318/",
			},
			wantName:  "news-api",
			wantRatio: 0.25,
			wantEP:    "http://collector:4318",
		},
		{
			name:      "ratio out of range keeps default",
			env:       map[string]string{"OTEL_TRACE_SAMPLE_RATIO": "7"},
			wantName:  "maroc-actualites-api",
			wantRatio: 1.0,
		},
		{
			name:      "unparseable ratio keeps default",
			env:       map[string]string{"OTEL_TRACE_SAMPLE_RATIO": "half"},
			wantName:  "maroc-actualites-api",
			wantRatio: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"OTEL_SERVICE_NAME", "OTEL_TRACE_SAMPLE_RATIO", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := ConfigFromEnv("maroc-actualites-api")

			assert.Equal(t, tt.wantName, cfg.ServiceName)
			assert.Equal(t, tt.wantRatio, cfg.SampleRatio)
			assert.Equal(t, tt.wantEP, cfg.OTLPEndpoint)
		})
	}
}

func TestInit_WithoutExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Init(context.Background(), Config{ServiceName: "test", SampleRatio: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().HasTraceID())
	assert.True(t, span.SpanContext().IsSampled())
}

func TestInit_RequiresServiceName(t *testing.T) {
	_, err := Init(context.Background(), Config{})
	assert.Error(t, err)
}
