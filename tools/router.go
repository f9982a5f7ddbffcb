package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/jonwraymond/datadog-mcp/cache"
	"github.com/jonwraymond/datadog-mcp/datadog"
	"github.com/jonwraymond/datadog-mcp/observe"
)

// ServerName identifies this server in tool telemetry.
const ServerName = "datadog"

// Env is what a handler runs against.
type Env struct {
	Client *datadog.Client
	Cache  *cache.ResourceCache

	// Now is the reference time for relative time expressions.
	// Default: time.Now
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// HandlerFunc implements one tool.
type HandlerFunc func(ctx context.Context, env *Env, args Args) (any, error)

var handlers = map[string]HandlerFunc{
	"datadog_metrics_query":     queryMetrics,
	"datadog_logs_search":       searchLogs,
	"datadog_monitors_list":     listMonitors,
	"datadog_monitors_get":      getMonitor,
	"datadog_events_query":      queryEvents,
	"datadog_hosts_list":        listHosts,
	"datadog_dashboards_list":   listDashboards,
	"datadog_dashboards_get":    getDashboard,
	"datadog_spans_search":      searchSpans,
	"datadog_services_list":     listServices,
	"datadog_logs_aggregate":    aggregateLogs,
	"datadog_logs_timeseries":   logsTimeseries,
	"datadog_rum_events_search": searchRUMEvents,
}

// Option configures a Router.
type Option func(*Router)

// WithMiddleware instruments every call with mw.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(r *Router) {
		if mw != nil {
			r.mw = mw
		}
	}
}

// WithClock sets the reference time for relative time expressions.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.env.Now = now
	}
}

// Router dispatches tool calls to handlers.
//
// Contract:
//   - Concurrency: safe for concurrent use; handlers share the client and
//     the resource cache.
//   - Errors: unknown tools return ErrUnknownTool; handler errors are
//     returned unchanged.
type Router struct {
	env   Env
	tools []Tool
	mw    *observe.Middleware
	exec  observe.ExecuteFunc
}

// NewRouter creates a router over client and rc.
func NewRouter(client *datadog.Client, rc *cache.ResourceCache, opts ...Option) *Router {
	r := &Router{
		env: Env{Client: client, Cache: rc},
		mw:  observe.NewMiddleware(nil, nil, nil),
	}
	for _, opt := range opts {
		opt(r)
	}

	def := TagFilterAll
	if f, ok := client.TagFilter(); ok {
		def = f
	}
	r.tools = catalog(def)
	r.exec = r.mw.Wrap(r.dispatch)
	return r
}

// Tools returns the tool catalog in listing order.
func (r *Router) Tools() []Tool {
	return slices.Clone(r.tools)
}

// Has reports whether name is a known tool.
func (r *Router) Has(name string) bool {
	_, ok := handlers[name]
	return ok
}

// Call runs tool name with the raw arguments of a tools/call request.
func (r *Router) Call(ctx context.Context, name string, arguments json.RawMessage) (any, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	meta := observe.ToolMeta{Name: name, Server: ServerName}
	return r.exec(ctx, meta, ParseArgs(arguments))
}

func (r *Router) dispatch(ctx context.Context, meta observe.ToolMeta, input any) (any, error) {
	args, _ := input.(Args)
	return handlers[meta.Name](ctx, &r.env, args)
}
