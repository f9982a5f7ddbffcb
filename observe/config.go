package observe

import (
	"errors"
	"fmt"
	"io"

	"github.com/jonwraymond/datadog-mcp/observe/exporters"
)

var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")
)

// Config selects what NewObserver builds. Subsystems that are not Enabled
// get no-op implementations and their other settings are ignored.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig

	// Output receives log lines and stdout exporter output. Nil means stderr.
	Output io.Writer
}

// TracingConfig names the span exporter. Every span is sampled.
type TracingConfig struct {
	Enabled  bool
	Exporter string
}

// MetricsConfig names the metric reader.
type MetricsConfig struct {
	Enabled  bool
	Exporter string
}

// LoggingConfig sets the minimum log level.
type LoggingConfig struct {
	Enabled bool
	Level   string
}

// Validate returns the first invalid setting.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}
	switch {
	case c.Tracing.Enabled && !exporters.HasTracing(c.Tracing.Exporter):
		return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
	case c.Metrics.Enabled && !exporters.HasMetrics(c.Metrics.Exporter):
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
	case c.Logging.Enabled && !knownLevel(c.Logging.Level):
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	return nil
}
