package cache

import (
	"context"
	"slices"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

// ResourceCache holds one cache per cached resource kind. The three caches
// share a TTL but have independent capacity.
type ResourceCache struct {
	dashboards *Cache[[]datadog.DashboardSummary]
	monitors   *Cache[[]datadog.Monitor]
	events     *Cache[[]datadog.Event]
}

// NewResourceCache creates the resource cache set. Each kind gets its own
// cache built from cfg.
func NewResourceCache(cfg Config) *ResourceCache {
	return &ResourceCache{
		dashboards: New(cfg, WithClone(slices.Clone[[]datadog.DashboardSummary])),
		monitors:   New(cfg, WithClone(slices.Clone[[]datadog.Monitor])),
		events:     New(cfg, WithClone(slices.Clone[[]datadog.Event])),
	}
}

// SetDashboards stores a dashboard listing.
func (r *ResourceCache) SetDashboards(key string, v []datadog.DashboardSummary) {
	r.dashboards.Set(key, v)
}

// GetOrFetchDashboards returns a cached dashboard listing or fetches it.
func (r *ResourceCache) GetOrFetchDashboards(ctx context.Context, key string, fetch FetchFunc[[]datadog.DashboardSummary]) ([]datadog.DashboardSummary, error) {
	return r.dashboards.GetOrFetch(ctx, key, fetch)
}

// SetMonitors stores a monitor listing.
func (r *ResourceCache) SetMonitors(key string, v []datadog.Monitor) {
	r.monitors.Set(key, v)
}

// GetOrFetchMonitors returns a cached monitor listing or fetches it.
func (r *ResourceCache) GetOrFetchMonitors(ctx context.Context, key string, fetch FetchFunc[[]datadog.Monitor]) ([]datadog.Monitor, error) {
	return r.monitors.GetOrFetch(ctx, key, fetch)
}

// SetEvents stores an event listing.
func (r *ResourceCache) SetEvents(key string, v []datadog.Event) {
	r.events.Set(key, v)
}

// GetOrFetchEvents returns a cached event listing or fetches it.
func (r *ResourceCache) GetOrFetchEvents(ctx context.Context, key string, fetch FetchFunc[[]datadog.Event]) ([]datadog.Event, error) {
	return r.events.GetOrFetch(ctx, key, fetch)
}

// SweepAll removes expired entries from every cache and returns the total
// number removed.
func (r *ResourceCache) SweepAll() int {
	return r.dashboards.SweepExpired() +
		r.monitors.SweepExpired() +
		r.events.SweepExpired()
}

// Stats returns per-kind cache statistics keyed by resource name.
func (r *ResourceCache) Stats() map[string]Stats {
	return map[string]Stats{
		"dashboards": r.dashboards.Stats(),
		"monitors":   r.monitors.Stats(),
		"events":     r.events.Stats(),
	}
}
