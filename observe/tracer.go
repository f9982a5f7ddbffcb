package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ToolMeta identifies a tool for telemetry purposes.
type ToolMeta struct {
	Name   string // Tool name as exposed by tools/list (required)
	Server string // Name of the server exposing the tool (optional)
}

// SpanName returns the deterministic span name for this tool:
// mcp.tool.<name>.
func (m ToolMeta) SpanName() string {
	return "mcp.tool." + m.Name
}

func (m ToolMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("tool.name", m.Name)}
	if m.Server != "" {
		attrs = append(attrs, attribute.String("tool.server", m.Server))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with tool-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a tool call.
	StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with tool metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("tool.error", false))

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("tool.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ToolMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
