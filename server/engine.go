package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/datadog-mcp/observe"
)

// Defaults applied when a Config leaves a field unset.
const (
	DefaultSweepInterval = 60 * time.Second
	DefaultIdleDelay     = 100 * time.Millisecond
	DefaultMaxEmptyReads = 3
)

// Sentinel errors for engine construction.
var (
	ErrNoRouter = errors.New("server: router is required")
)

// Sweeper evicts expired cache entries and reports how many were removed.
type Sweeper interface {
	SweepAll() int
}

// Config configures an Engine.
type Config struct {
	Router  Router
	Sweeper Sweeper
	Session *Session

	// SweepInterval is the period of the background cache sweep.
	// Default: 60s
	SweepInterval time.Duration

	// IdleDelay is the pause after an empty read before reading again.
	// Default: 100ms
	IdleDelay time.Duration

	// MaxEmptyReads is the number of consecutive empty reads tolerated
	// before the input is considered closed.
	// Default: 3
	MaxEmptyReads int

	Logger  observe.Logger
	Metrics observe.Metrics
}

// Engine serves one client session over a line-oriented stream.
//
// Contract:
//   - Concurrency: Run serves requests sequentially; responses are written
//     in request order.
//   - Context: cancelling the Run context stops the read loop before the
//     next read and stops the sweeper.
//   - Errors: malformed input and failed tool calls are reported to the
//     client and never end the session.
type Engine struct {
	router  Router
	sweeper Sweeper
	session *Session
	cfg     Config
	logger  observe.Logger
	metrics observe.Metrics
}

// NewEngine creates an engine from cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Router == nil {
		return nil, ErrNoRouter
	}
	if cfg.Session == nil {
		cfg.Session = NewSession("")
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = DefaultIdleDelay
	}
	if cfg.MaxEmptyReads <= 0 {
		cfg.MaxEmptyReads = DefaultMaxEmptyReads
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}

	logger := cfg.Logger
	if id := cfg.Session.ID(); id != "" {
		logger = logger.With(observe.F("session.id", id))
	}

	return &Engine{
		router:  cfg.Router,
		sweeper: cfg.Sweeper,
		session: cfg.Session,
		cfg:     cfg,
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// Session returns the engine's session.
func (e *Engine) Session() *Session { return e.session }

// Run serves requests from in and writes responses to out until the input
// is exhausted, a write fails, or ctx is cancelled. The sweeper runs for the
// lifetime of the read loop.
func (e *Engine) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return e.serve(ctx, in, NewWriter(out))
	})
	if e.sweeper != nil {
		g.Go(func() error {
			e.sweep(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) serve(ctx context.Context, in io.Reader, w *Writer) error {
	reader := bufio.NewReader(in)
	empty := 0

	for {
		if ctx.Err() != nil {
			e.logger.Info(ctx, "read loop stopped", observe.F("reason", "context cancelled"))
			return nil
		}

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			if ctx.Err() != nil {
				e.logger.Info(ctx, "read loop stopped", observe.F("reason", "context cancelled"))
				return nil
			}
			e.logger.Error(ctx, "read loop stopped", observe.F("reason", "read failed"), observe.F("error", err))
			return fmt.Errorf("server: read: %w", err)
		}

		if line == "" {
			empty++
			if empty > e.cfg.MaxEmptyReads {
				e.logger.Info(ctx, "read loop stopped", observe.F("reason", "input closed"))
				return nil
			}
			sleepCtx(ctx, e.cfg.IdleDelay)
			continue
		}
		empty = 0

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp := e.handleLine(ctx, []byte(line))
		if resp == nil {
			continue
		}
		if err := w.WriteMessage(resp); err != nil {
			e.logger.Info(ctx, "read loop stopped", observe.F("reason", "write failed"), observe.F("error", err))
			return nil
		}
	}
}

// handleLine parses and dispatches one line. It returns nil when nothing
// should be written.
func (e *Engine) handleLine(ctx context.Context, line []byte) *Response {
	req, err := ParseRequest(line)
	if err != nil {
		id, ok := RecoverID(line)
		e.logger.Debug(ctx, "unparseable request", observe.F("error", err), observe.F("id_recovered", ok))
		if !ok {
			return nil
		}
		return newError(id, CodeParseError, "Parse error", map[string]any{"details": err.Error()})
	}

	resp := e.dispatch(ctx, req)
	if req.IsNotification() {
		return nil
	}
	return resp
}

func (e *Engine) sweep(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := e.sweeper.SweepAll()
			e.metrics.RecordSweep(ctx, removed)
			if removed > 0 {
				e.logger.Info(ctx, "cache sweep", observe.F("removed", removed))
			}
		}
	}
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
