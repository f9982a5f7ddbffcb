// Package exporters builds OpenTelemetry span exporters and metric readers
// by name.
//
// Stdout exporters write to the writer they are given. The server passes
// stderr, since stdout carries the JSON-RPC stream.
package exporters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrUnknown is returned for an exporter name that is not registered.
var ErrUnknown = errors.New("unknown exporter")

type (
	spanFactory   func(ctx context.Context, w io.Writer) (sdktrace.SpanExporter, error)
	readerFactory func(ctx context.Context, w io.Writer) (sdkmetric.Reader, error)
)

// "none" and "" build nothing: a nil exporter or reader with a nil error.
var spanFactories = map[string]spanFactory{
	"":     noSpans,
	"none": noSpans,
	"stdout": func(_ context.Context, w io.Writer) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithWriter(w))
	},
	"otlp": func(ctx context.Context, _ io.Writer) (sdktrace.SpanExporter, error) {
		if _, err := endpoint("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx)
	},
	// Jaeger ingests OTLP natively.
	"jaeger": func(ctx context.Context, _ io.Writer) (sdktrace.SpanExporter, error) {
		url, err := endpoint("OTEL_EXPORTER_JAEGER_ENDPOINT")
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(url))
	},
}

var readerFactories = map[string]readerFactory{
	"":     noReader,
	"none": noReader,
	"stdout": func(_ context.Context, w io.Writer) (sdkmetric.Reader, error) {
		return periodic(stdoutmetric.New(stdoutmetric.WithWriter(w)))
	},
	"otlp": func(ctx context.Context, _ io.Writer) (sdkmetric.Reader, error) {
		if _, err := endpoint("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); err != nil {
			return nil, err
		}
		return periodic(otlpmetricgrpc.New(ctx))
	},
	// Registers with the default Prometheus registerer, which the health
	// listener serves on /metrics.
	"prometheus": func(context.Context, io.Writer) (sdkmetric.Reader, error) {
		return prometheus.New()
	},
}

// HasTracing reports whether name is a known span exporter.
func HasTracing(name string) bool {
	_, ok := spanFactories[name]
	return ok
}

// HasMetrics reports whether name is a known metric reader.
func HasMetrics(name string) bool {
	_, ok := readerFactories[name]
	return ok
}

// NewTracingExporter builds the span exporter called name: otlp, jaeger,
// stdout or none. A nil w means stderr.
func NewTracingExporter(ctx context.Context, name string, w io.Writer) (sdktrace.SpanExporter, error) {
	build, ok := spanFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: tracing %q", ErrUnknown, name)
	}
	return build(ctx, orStderr(w))
}

// NewMetricsReader builds the metric reader called name: otlp, prometheus,
// stdout or none. A nil w means stderr.
func NewMetricsReader(ctx context.Context, name string, w io.Writer) (sdkmetric.Reader, error) {
	build, ok := readerFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: metrics %q", ErrUnknown, name)
	}
	return build(ctx, orStderr(w))
}

func noSpans(context.Context, io.Writer) (sdktrace.SpanExporter, error) { return nil, nil }
func noReader(context.Context, io.Writer) (sdkmetric.Reader, error)    { return nil, nil }

func periodic(exp sdkmetric.Exporter, err error) (sdkmetric.Reader, error) {
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exp), nil
}

// endpoint returns the first non-empty variable among keys.
func endpoint(keys ...string) (string, error) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("endpoint not configured: set %s", strings.Join(keys, " or "))
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}
