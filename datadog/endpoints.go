package datadog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// QueryMetrics runs a timeseries query over [from, to] (Unix seconds).
func (c *Client) QueryMetrics(ctx context.Context, query string, from, to int64) (*MetricsResponse, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))

	resp, err := request[MetricsResponse](ctx, c, http.MethodGet, "/api/v1/query", q, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DefaultLogsLimit is the page size of a log search when none is given.
const DefaultLogsLimit = 10

// SearchLogs searches log events between two RFC 3339 timestamps. A
// non-positive limit selects DefaultLogsLimit.
func (c *Client) SearchLogs(ctx context.Context, query, from, to string, limit int) (*LogsResponse, error) {
	if limit <= 0 {
		limit = DefaultLogsLimit
	}
	body := map[string]any{
		"filter": map[string]any{"query": query, "from": from, "to": to},
		"page":   map[string]any{"limit": limit},
		"sort":   "timestamp",
	}

	resp, err := request[LogsResponse](ctx, c, http.MethodPost, "/api/v2/logs/events/search", nil, body)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AggregateLogs runs a logs analytics query and returns the raw response.
func (c *Client) AggregateLogs(ctx context.Context, r LogsAggregateRequest) (json.RawMessage, error) {
	body := map[string]any{
		"filter": map[string]any{"query": r.Query, "from": r.From, "to": r.To},
	}
	if r.Compute != nil {
		body["compute"] = r.Compute
	}
	if r.GroupBy != nil {
		body["group_by"] = r.GroupBy
	}
	if r.Timezone != "" {
		body["options"] = map[string]any{"timezone": r.Timezone}
	}

	return request[json.RawMessage](ctx, c, http.MethodPost, "/api/v2/logs/analytics/aggregate", nil, body)
}

// MonitorsQuery filters a monitor listing.
type MonitorsQuery struct {
	Tags        string
	MonitorTags string
	Page        *int
	PageSize    *int
}

// ListMonitors lists monitors.
func (c *Client) ListMonitors(ctx context.Context, mq MonitorsQuery) ([]Monitor, error) {
	q := url.Values{}
	setIf(q, "tags", mq.Tags)
	setIf(q, "monitor_tags", mq.MonitorTags)
	setIntIf(q, "page", mq.Page)
	setIntIf(q, "page_size", mq.PageSize)

	return request[[]Monitor](ctx, c, http.MethodGet, "/api/v1/monitor", q, nil)
}

// GetMonitor fetches a single monitor.
func (c *Client) GetMonitor(ctx context.Context, id int64) (*Monitor, error) {
	resp, err := request[Monitor](ctx, c, http.MethodGet, fmt.Sprintf("/api/v1/monitor/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsQuery selects events from the event stream.
type EventsQuery struct {
	Start    int64
	End      int64
	Priority string
	Sources  string
	Tags     string
}

// QueryEvents queries the event stream.
func (c *Client) QueryEvents(ctx context.Context, eq EventsQuery) (*EventsResponse, error) {
	q := url.Values{}
	q.Set("start", strconv.FormatInt(eq.Start, 10))
	q.Set("end", strconv.FormatInt(eq.End, 10))
	setIf(q, "priority", eq.Priority)
	setIf(q, "sources", eq.Sources)
	setIf(q, "tags", eq.Tags)

	resp, err := request[EventsResponse](ctx, c, http.MethodGet, "/api/v1/events", q, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HostsQuery filters a host listing.
type HostsQuery struct {
	Filter    string
	From      *int64
	SortField string
	SortDir   string
	Start     *int
	Count     *int
}

// ListHosts lists infrastructure hosts.
func (c *Client) ListHosts(ctx context.Context, hq HostsQuery) (*HostsResponse, error) {
	q := url.Values{}
	setIf(q, "filter", hq.Filter)
	if hq.From != nil {
		q.Set("from", strconv.FormatInt(*hq.From, 10))
	}
	setIf(q, "sort_field", hq.SortField)
	setIf(q, "sort_dir", hq.SortDir)
	setIntIf(q, "start", hq.Start)
	setIntIf(q, "count", hq.Count)

	resp, err := request[HostsResponse](ctx, c, http.MethodGet, "/api/v1/hosts", q, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDashboards lists dashboard summaries.
func (c *Client) ListDashboards(ctx context.Context) (*DashboardsResponse, error) {
	resp, err := request[DashboardsResponse](ctx, c, http.MethodGet, "/api/v1/dashboard", nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDashboard fetches a full dashboard definition.
func (c *Client) GetDashboard(ctx context.Context, id string) (*Dashboard, error) {
	resp, err := request[Dashboard](ctx, c, http.MethodGet, "/api/v1/dashboard/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SpansQuery selects APM spans.
type SpansQuery struct {
	Query  string
	From   string
	To     string
	Limit  int
	Cursor string
	Sort   string
}

// DefaultSpansLimit is the page size of a span search when none is given.
const DefaultSpansLimit = 10

// ListSpans searches APM spans and returns the raw response.
func (c *Client) ListSpans(ctx context.Context, sq SpansQuery) (json.RawMessage, error) {
	limit := sq.Limit
	if limit <= 0 {
		limit = DefaultSpansLimit
	}

	q := url.Values{}
	q.Set("filter[query]", sq.Query)
	q.Set("filter[from]", sq.From)
	q.Set("filter[to]", sq.To)
	q.Set("page[limit]", strconv.Itoa(limit))
	setIf(q, "page[cursor]", sq.Cursor)
	setIf(q, "sort", sq.Sort)

	return request[json.RawMessage](ctx, c, http.MethodGet, "/api/v2/spans/events", q, nil)
}

// ServicesQuery pages through the service catalog.
type ServicesQuery struct {
	PageSize   *int
	PageNumber *int
	Env        string
}

// ListServices lists service definitions from the service catalog.
func (c *Client) ListServices(ctx context.Context, sq ServicesQuery) (*ServicesResponse, error) {
	q := url.Values{}
	setIntIf(q, "page[size]", sq.PageSize)
	setIntIf(q, "page[number]", sq.PageNumber)
	setIf(q, "filter[env]", sq.Env)

	resp, err := request[ServicesResponse](ctx, c, http.MethodGet, "/api/v2/services/definitions", q, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RUMQuery selects RUM events.
type RUMQuery struct {
	Query  string
	From   string
	To     string
	Limit  int
	Cursor string
	Sort   string
}

// DefaultRUMLimit is the page size of a RUM search when none is given.
const DefaultRUMLimit = 10

// SearchRUMEvents searches RUM events.
func (c *Client) SearchRUMEvents(ctx context.Context, rq RUMQuery) (*RUMEventsResponse, error) {
	limit := rq.Limit
	if limit <= 0 {
		limit = DefaultRUMLimit
	}

	page := map[string]any{"limit": limit}
	if rq.Cursor != "" {
		page["cursor"] = rq.Cursor
	}
	body := map[string]any{
		"filter": map[string]any{"query": rq.Query, "from": rq.From, "to": rq.To},
		"page":   page,
	}
	if rq.Sort != "" {
		body["sort"] = rq.Sort
	}

	resp, err := request[RUMEventsResponse](ctx, c, http.MethodPost, "/api/v2/rum/events/search", nil, body)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
