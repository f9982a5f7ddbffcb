package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/jonwraymond/datadog-mcp/auth"
	"github.com/jonwraymond/datadog-mcp/secret"
)

// Options defines CLI flags for the Datadog MCP server. Every option can also
// be set through its environment variable.
type Options struct {
	APIKey string `long:"api-key" env:"DD_API_KEY" default:"DEMO_API_KEY" description:"Datadog API key, a ${VAR} expression or secretref:<provider>:<ref>"`
	AppKey string `long:"app-key" env:"DD_APP_KEY" default:"DEMO_APP_KEY" description:"Datadog application key, a ${VAR} expression or secretref:<provider>:<ref>"`
	Site   string `long:"site" env:"DD_SITE" default:"datadoghq.com" description:"Datadog site"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"warn" description:"Log level (trace|debug|info|warn|error|off)"`

	CacheTTL        time.Duration `long:"cache-ttl" env:"DD_MCP_CACHE_TTL" default:"5m" description:"Resource cache entry lifetime"`
	CacheMaxEntries int           `long:"cache-max-entries" env:"DD_MCP_CACHE_MAX_ENTRIES" default:"100" description:"Resource cache capacity per resource kind"`
	SweepInterval   time.Duration `long:"sweep-interval" env:"DD_MCP_SWEEP_INTERVAL" default:"60s" description:"Interval between expired cache entry sweeps"`

	HealthAddr      string `long:"health-addr" env:"DD_MCP_HEALTH_ADDR" description:"Health and metrics listen address (empty disables)"`
	TracingExporter string `long:"tracing-exporter" env:"DD_MCP_TRACING_EXPORTER" default:"none" description:"Trace exporter (otlp|jaeger|stdout|none)"`
	MetricsExporter string `long:"metrics-exporter" env:"DD_MCP_METRICS_EXPORTER" default:"none" description:"Metrics exporter (otlp|prometheus|stdout|none)"`

	EnvFile string `long:"env-file" default:".env" description:"Dotenv file loaded before reading the environment"`

	// TagFilter is read from DD_TAG_FILTER, where an empty value differs
	// from an unset one.
	TagFilter *string `no-flag:"true"`
}

// parseOptions loads the dotenv file named by --env-file, then parses args
// against the resulting environment. Variables already set in the process
// environment win over the file.
func parseOptions(args []string) (*Options, error) {
	var pre Options
	envFile := ".env"
	if _, err := flags.NewParser(&pre, flags.IgnoreUnknown).ParseArgs(args); err == nil && pre.EnvFile != "" {
		envFile = pre.EnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv("DD_TAG_FILTER"); ok {
		opts.TagFilter = &v
	}
	return &opts, nil
}

// credentials resolves the configured keys through r.
func (o *Options) credentials(ctx context.Context, r *secret.Resolver) (auth.Credentials, error) {
	resolved, err := r.ResolveMap(ctx, map[string]string{
		"DD_API_KEY": o.APIKey,
		"DD_APP_KEY": o.AppKey,
	})
	if err != nil {
		return auth.Credentials{}, err
	}
	return auth.Credentials{
		APIKey: resolved["DD_API_KEY"],
		AppKey: resolved["DD_APP_KEY"],
	}, nil
}

func isHelp(err error) bool {
	var ferr *flags.Error
	return errors.As(err, &ferr) && ferr.Type == flags.ErrHelp
}
