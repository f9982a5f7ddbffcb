package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records server metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records a tool call with duration and error status.
	RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error)

	// RecordRetry records one retry of an upstream request.
	RecordRetry(ctx context.Context, endpoint string)

	// RecordSweep records the number of entries removed by a cache sweep.
	RecordSweep(ctx context.Context, removed int)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	retryCount   metric.Int64Counter
	sweepCount   metric.Int64Counter
}

// NewMetrics creates the server instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"mcp.tool.calls",
		metric.WithDescription("Total number of tool calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"mcp.tool.errors",
		metric.WithDescription("Total number of failed tool calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"mcp.tool.duration_ms",
		metric.WithDescription("Tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"datadog.request.retries",
		metric.WithDescription("Retries of Datadog API requests"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	sweepCount, err := meter.Int64Counter(
		"cache.sweep.removed",
		metric.WithDescription("Expired cache entries removed by the sweeper"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		retryCount:   retryCount,
		sweepCount:   sweepCount,
	}, nil
}

// RecordExecution records metrics for a tool call.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRetry increments the retry counter for endpoint.
func (m *metricsImpl) RecordRetry(ctx context.Context, endpoint string) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

// RecordSweep adds removed to the sweep counter.
func (m *metricsImpl) RecordSweep(ctx context.Context, removed int) {
	m.sweepCount.Add(ctx, int64(removed))
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
}
func (noopMetrics) RecordRetry(ctx context.Context, endpoint string) {}
func (noopMetrics) RecordSweep(ctx context.Context, removed int)     {}
