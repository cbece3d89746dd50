// Package tracing installs the OpenTelemetry tracer provider and the W3C
// trace context propagator used by the order API client.
package tracing

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

type Config struct {
	ServiceName string
	ExporterURL string  // host:port of an OTLP/HTTP collector; empty disables export
	SampleRate  float64 // ratio of root spans sampled
}

// Init sets the global tracer provider and propagator and returns its shutdown.
// Without an exporter spans are still created, so trace context keeps flowing
// to the order API, but nothing leaves the process.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		)),
	}
	if cfg.ExporterURL != "" {
		client := otlptracehttp.NewClient(otlptracehttp.WithEndpoint(cfg.ExporterURL), otlptracehttp.WithInsecure())
		exporter, err := otlptrace.New(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		log.Printf("[tracing] exporting spans to %s", cfg.ExporterURL)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
