package observe

import (
	"context"
	"time"
)

// ExecuteFunc runs one tool call.
type ExecuteFunc func(ctx context.Context, tool ToolMeta, input any) (any, error)

// Middleware instruments tool calls. Each call gets a span, an execution
// metric and a log entry. Inputs, results and errors pass through unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware builds a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	m := &Middleware{tracer: tracer, metrics: metrics, logger: logger}
	if m.tracer == nil {
		m.tracer = newNoopTracer()
	}
	if m.metrics == nil {
		m.metrics = NopMetrics()
	}
	if m.logger == nil {
		m.logger = NopLogger()
	}
	return m
}

// MiddlewareFromObserver builds a Middleware on obs's tracer, meter and
// logger.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Metrics returns the recorder the middleware reports to.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Wrap returns next instrumented. The result is safe for concurrent use if
// next is.
func (m *Middleware) Wrap(next ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, tool ToolMeta, input any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, tool)
		began := time.Now()
		out, err := next(ctx, tool, input)
		elapsed := time.Since(began)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, tool, elapsed, err)
		m.logCall(ctx, tool, elapsed, err)
		return out, err
	}
}

func (m *Middleware) logCall(ctx context.Context, tool ToolMeta, elapsed time.Duration, err error) {
	log := m.logger.WithTool(tool)
	took := F("duration_ms", float64(elapsed.Milliseconds()))
	if err != nil {
		log.Error(ctx, "tool call failed", took, F("error", err))
		return
	}
	log.Debug(ctx, "tool call completed", took)
}
