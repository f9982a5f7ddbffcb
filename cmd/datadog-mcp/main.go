package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/datadog-mcp/cache"
	"github.com/jonwraymond/datadog-mcp/datadog"
	"github.com/jonwraymond/datadog-mcp/health"
	"github.com/jonwraymond/datadog-mcp/observe"
	"github.com/jonwraymond/datadog-mcp/secret"
	"github.com/jonwraymond/datadog-mcp/server"
	"github.com/jonwraymond/datadog-mcp/tools"
)

const serviceName = "datadog-mcp"

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if isHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(opts *Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: serviceName,
		Version:     server.ServerVersion,
		Tracing: observe.TracingConfig{
			Enabled:  opts.TracingExporter != "none",
			Exporter: opts.TracingExporter,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  opts.MetricsExporter != "none",
			Exporter: opts.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   opts.LogLevel,
		},
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	session := server.NewSession(uuid.NewString())
	logger := obs.Logger().With(observe.F("session.id", session.ID()))

	resolver, err := secret.NewDefaultResolver()
	if err != nil {
		return err
	}
	defer resolver.Close()

	creds, err := opts.credentials(ctx, resolver)
	if err != nil {
		return err
	}
	if creds.IsDemo() {
		logger.Warn(ctx, "using placeholder credentials; set DD_API_KEY and DD_APP_KEY")
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}

	client, err := datadog.NewClient(datadog.Config{
		Credentials: creds,
		Site:        opts.Site,
		TagFilter:   opts.TagFilter,
		Logger:      logger,
		Metrics:     mw.Metrics(),
	})
	if err != nil {
		return err
	}

	rc := cache.NewResourceCache(cache.Config{
		TTL:        opts.CacheTTL,
		MaxEntries: opts.CacheMaxEntries,
	})

	router := tools.NewRouter(client, rc, tools.WithMiddleware(mw))

	engine, err := server.NewEngine(server.Config{
		Router:        router,
		Sweeper:       rc,
		Session:       session,
		SweepInterval: opts.SweepInterval,
		Logger:        obs.Logger(),
		Metrics:       mw.Metrics(),
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "starting",
		observe.F("version", server.ServerVersion),
		observe.F("site", opts.Site),
		observe.F("api_key_fingerprint", creds.Fingerprint()),
		observe.F("tools", len(router.Tools())),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// A blocked stdin read only returns once stdin is closed.
	context.AfterFunc(gctx, func() { _ = os.Stdin.Close() })

	g.Go(func() error {
		defer cancel()
		return engine.Run(gctx, os.Stdin, os.Stdout)
	})

	if opts.HealthAddr != "" {
		agg := health.NewAggregator(0)
		agg.Register(health.NewCacheChecker(rc))
		agg.Register(health.NewDatadogChecker(client, 0))

		srv := health.NewServer(opts.HealthAddr, health.Handler(agg, nil), logger)
		g.Go(func() error {
			return srv.ListenAndServe(gctx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info(context.Background(), "stopped")
	return err
}
