package observe

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes structured entries. Implementations are safe for concurrent
// use and never panic; a failed write is dropped.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)

	// With returns a logger that adds fields to every entry.
	With(fields ...Field) Logger

	// WithTool returns a logger that tags every entry with the tool.
	WithTool(meta ToolMeta) Logger
}

// Field is one key/value pair of a log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (l nopLogger) With(...Field) Logger                  { return l }
func (l nopLogger) WithTool(ToolMeta) Logger              { return l }

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

// ParseLogLevel parses a string log level. "trace" maps to debug, "off"
// disables output, and anything unrecognized falls back to warn.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "off", "none":
		return LevelOff
	default:
		return LevelWarn
	}
}

// knownLevel reports whether ParseLogLevel recognizes s. The empty string
// selects the default level.
func knownLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "off", "none":
		return true
	}
	return false
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelOff:
		return "off"
	default:
		return "warn"
	}
}

// structuredLogger writes one JSON object per line.
type structuredLogger struct {
	level     LogLevel
	out       *lockedWriter
	baseAttrs map[string]any
}

// lockedWriter serializes writes from loggers derived from the same root.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger creates a structured logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &structuredLogger{
		level:     ParseLogLevel(level),
		out:       &lockedWriter{w: w},
		baseAttrs: make(map[string]any),
	}
}

func (l *structuredLogger) derive(extra int) map[string]any {
	attrs := make(map[string]any, len(l.baseAttrs)+extra)
	maps.Copy(attrs, l.baseAttrs)
	return attrs
}

// With returns a logger with fields attached to every entry.
func (l *structuredLogger) With(fields ...Field) Logger {
	attrs := l.derive(len(fields))
	for _, f := range fields {
		attrs[f.Key] = redact(f)
	}
	return &structuredLogger{level: l.level, out: l.out, baseAttrs: attrs}
}

// WithTool returns a logger with tool context attached.
func (l *structuredLogger) WithTool(meta ToolMeta) Logger {
	attrs := l.derive(2)
	attrs["tool.name"] = meta.Name
	if meta.Server != "" {
		attrs["tool.server"] = meta.Server
	}
	return &structuredLogger{level: l.level, out: l.out, baseAttrs: attrs}
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelError, msg, fields)
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *structuredLogger) log(_ context.Context, level LogLevel, msg string, fields []Field) {
	if level < l.level || l.level == LevelOff {
		return
	}

	entry := make(map[string]any, len(l.baseAttrs)+len(fields)+3)
	maps.Copy(entry, l.baseAttrs)
	for _, f := range fields {
		entry[f.Key] = redact(f)
	}

	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return // drop entries with unencodable fields
	}
	data = append(data, '\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = l.out.w.Write(data)
}

func redact(f Field) any {
	if isRedactedField(f.Key) {
		return "[REDACTED]"
	}
	if err, ok := f.Value.(error); ok && err != nil {
		return err.Error()
	}
	return f.Value
}

// redactedKeys holds field keys whose values are logged as [REDACTED],
// lowercased. Tool arguments are included because queries may carry customer
// data.
var redactedKeys = map[string]bool{
	"arguments":  true,
	"password":   true,
	"secret":     true,
	"token":      true,
	"api_key":    true,
	"apikey":     true,
	"app_key":    true,
	"appkey":     true,
	"dd_api_key": true,
	"dd_app_key": true,
	"credential": true,
}

// isRedactedField returns true if the field should be redacted.
func isRedactedField(key string) bool {
	return redactedKeys[strings.ToLower(key)]
}

var _ Logger = (*structuredLogger)(nil)
