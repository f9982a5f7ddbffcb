package observe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/datadog-mcp/observe/exporters"
)

// Observer hands out the process-wide tracer, meter and logger. It is safe
// for concurrent use. Shutdown flushes exporters, honors ctx, and may be
// called more than once.
type Observer interface {
	Tracer() trace.Tracer
	Meter() metric.Meter
	Logger() Logger
	Shutdown(ctx context.Context) error
}

type observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewObserver validates cfg and builds each enabled subsystem. SDK providers
// it creates are also installed as the otel globals.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	o := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer(cfg.ServiceName),
		meter:  noop.NewMeterProvider().Meter(cfg.ServiceName),
		logger: NopLogger(),
	}
	if cfg.Logging.Enabled {
		o.logger = NewLoggerWithWriter(cfg.Logging.Level, out)
	}
	if !cfg.Tracing.Enabled && !cfg.Metrics.Enabled {
		return o, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: resource: %w", err)
	}

	if cfg.Tracing.Enabled {
		exp, err := exporters.NewTracingExporter(ctx, cfg.Tracing.Exporter, out)
		if err != nil {
			return nil, fmt.Errorf("observe: tracing: %w", err)
		}
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		}
		if exp != nil {
			opts = append(opts, sdktrace.WithBatcher(exp))
		}
		o.tp = sdktrace.NewTracerProvider(opts...)
		o.tracer = o.tp.Tracer(cfg.ServiceName)
		otel.SetTracerProvider(o.tp)
	}

	if cfg.Metrics.Enabled {
		reader, err := exporters.NewMetricsReader(ctx, cfg.Metrics.Exporter, out)
		if err != nil {
			_ = o.Shutdown(ctx)
			return nil, fmt.Errorf("observe: metrics: %w", err)
		}
		opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
		if reader != nil {
			opts = append(opts, sdkmetric.WithReader(reader))
		}
		o.mp = sdkmetric.NewMeterProvider(opts...)
		o.meter = o.mp.Meter(cfg.ServiceName)
		otel.SetMeterProvider(o.mp)
	}

	return o, nil
}

func (o *observer) Tracer() trace.Tracer { return o.tracer }
func (o *observer) Meter() metric.Meter  { return o.meter }
func (o *observer) Logger() Logger       { return o.logger }

func (o *observer) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	if tp := o.tp; tp != nil {
		o.tp = nil
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: tracer provider: %w", err))
		}
	}
	if mp := o.mp; mp != nil {
		o.mp = nil
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
