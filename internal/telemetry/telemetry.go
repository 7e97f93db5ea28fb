// Package telemetry installs the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Options selects where spans go. An empty Endpoint disables export.
type Options struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
}

// Setup installs a batching OTLP/gRPC tracer provider and returns its
// shutdown function. Export problems are logged, never fatal.
func Setup(ctx context.Context, opts Options, logger *zap.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if opts.Endpoint == "" {
		return noop
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOptions(opts)...)
	if err != nil {
		logger.Warn("otel exporter error", zap.Error(err))
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		logger.Warn("otel resource error", zap.Error(err))
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return provider.Shutdown
}

// exporterOptions accepts both forms of OTEL_EXPORTER_OTLP_ENDPOINT: a URL
// such as http://collector:4317, where an http scheme implies plaintext,
// and a bare host:port.
func exporterOptions(opts Options) []otlptracegrpc.Option {
	var out []otlptracegrpc.Option
	if isEndpointURL(opts.Endpoint) {
		out = append(out, otlptracegrpc.WithEndpointURL(opts.Endpoint))
	} else {
		out = append(out, otlptracegrpc.WithEndpoint(opts.Endpoint))
	}
	if opts.Insecure {
		out = append(out, otlptracegrpc.WithInsecure())
	}
	return out
}

func isEndpointURL(endpoint string) bool {
	return strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
}
