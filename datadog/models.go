package datadog

import "encoding/json"

// MetricsResponse is the v1 timeseries query response.
type MetricsResponse struct {
	Status   string         `json:"status"`
	ResType  string         `json:"res_type"`
	FromDate int64          `json:"from_date"`
	ToDate   int64          `json:"to_date"`
	Series   []MetricSeries `json:"series"`
	Query    string         `json:"query"`
	Error    string         `json:"error,omitempty"`
	Message  string         `json:"message,omitempty"`
	GroupBy  []string       `json:"group_by,omitempty"`
}

// MetricSeries is one series of a metrics query. Point entries are
// [timestamp_ms, value] pairs, either of which may be null.
type MetricSeries struct {
	Metric      string        `json:"metric"`
	DisplayName string        `json:"display_name,omitempty"`
	Unit        []*MetricUnit `json:"unit,omitempty"`
	Pointlist   [][]*float64  `json:"pointlist,omitempty"`
	Scope       string        `json:"scope"`
	Expression  string        `json:"expression"`
	TagSet      []string      `json:"tag_set,omitempty"`
	Aggr        *string       `json:"aggr,omitempty"`
	Interval    *int64        `json:"interval,omitempty"`
	Length      *int64        `json:"length,omitempty"`
}

// MetricUnit describes the unit of a series.
type MetricUnit struct {
	Family      string  `json:"family"`
	Name        string  `json:"name"`
	Plural      string  `json:"plural"`
	ScaleFactor float64 `json:"scale_factor"`
	ShortName   string  `json:"short_name,omitempty"`
}

// LogsResponse is the v2 log search response.
type LogsResponse struct {
	Data   []LogEntry `json:"data"`
	Meta   *PageMeta  `json:"meta,omitempty"`
	Errors []string   `json:"errors,omitempty"`
}

// LogEntry is a single log event.
type LogEntry struct {
	ID         string         `json:"id"`
	Type       string         `json:"type,omitempty"`
	Attributes *LogAttributes `json:"attributes,omitempty"`
}

// LogAttributes holds the searchable attributes of a log event.
type LogAttributes struct {
	Timestamp  string         `json:"timestamp,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Host       string         `json:"host,omitempty"`
	Service    string         `json:"service,omitempty"`
	Message    string         `json:"message,omitempty"`
	Status     string         `json:"status,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// PageMeta is the cursor metadata shared by v2 search APIs.
type PageMeta struct {
	Page    *CursorPage `json:"page,omitempty"`
	Elapsed int64       `json:"elapsed,omitempty"`
}

// CursorPage carries the cursor for the next page, if any.
type CursorPage struct {
	After string `json:"after,omitempty"`
}

// Monitor is a monitor definition and its state.
type Monitor struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Query        string          `json:"query"`
	Message      string          `json:"message,omitempty"`
	Tags         []string        `json:"tags"`
	Created      string          `json:"created,omitempty"`
	Modified     string          `json:"modified,omitempty"`
	OverallState string          `json:"overall_state,omitempty"`
	Priority     *int            `json:"priority,omitempty"`
	Options      *MonitorOptions `json:"options,omitempty"`
	Creator      *Creator        `json:"creator,omitempty"`
	Multi        bool            `json:"multi,omitempty"`
}

// Creator identifies the author of a monitor.
type Creator struct {
	ID     int64  `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Handle string `json:"handle,omitempty"`
	Name   string `json:"name,omitempty"`
}

// MonitorOptions holds the alerting configuration of a monitor.
type MonitorOptions struct {
	Thresholds   *MonitorThresholds `json:"thresholds,omitempty"`
	NotifyNoData *bool              `json:"notify_no_data,omitempty"`
	NotifyAudit  *bool              `json:"notify_audit,omitempty"`
	TimeoutH     *int               `json:"timeout_h,omitempty"`
	Silenced     json.RawMessage    `json:"silenced,omitempty"`
}

// MonitorThresholds are the alert thresholds of a monitor.
type MonitorThresholds struct {
	Critical *float64 `json:"critical,omitempty"`
	Warning  *float64 `json:"warning,omitempty"`
	OK       *float64 `json:"ok,omitempty"`
}

// EventsResponse is the v1 event stream response.
type EventsResponse struct {
	Events []Event `json:"events"`
	Status string  `json:"status,omitempty"`
}

// Event is a single event stream entry.
type Event struct {
	ID           int64    `json:"id,omitempty"`
	IDStr        string   `json:"id_str,omitempty"`
	Title        string   `json:"title,omitempty"`
	Text         string   `json:"text,omitempty"`
	DateHappened *int64   `json:"date_happened,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Host         string   `json:"host,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Source       string   `json:"source,omitempty"`
	AlertType    string   `json:"alert_type,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// HostsResponse is the v1 host listing response.
type HostsResponse struct {
	TotalMatching int64  `json:"total_matching"`
	TotalReturned int64  `json:"total_returned"`
	HostList      []Host `json:"host_list"`
}

// Host is an infrastructure host.
type Host struct {
	ID               int64               `json:"id,omitempty"`
	Name             string              `json:"name"`
	HostName         string              `json:"host_name"`
	Up               bool                `json:"up"`
	IsMuted          bool                `json:"is_muted"`
	TagsBySource     map[string][]string `json:"tags_by_source,omitempty"`
	Apps             []string            `json:"apps,omitempty"`
	AWSName          string              `json:"aws_name,omitempty"`
	LastReportedTime *int64              `json:"last_reported_time,omitempty"`
	Sources          []string            `json:"sources,omitempty"`
}

// DashboardsResponse is the v1 dashboard listing response.
type DashboardsResponse struct {
	Dashboards []DashboardSummary `json:"dashboards"`
}

// DashboardSummary is the listing form of a dashboard.
type DashboardSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	AuthorHandle string   `json:"author_handle,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
	ModifiedAt   string   `json:"modified_at,omitempty"`
	IsReadOnly   bool     `json:"is_read_only,omitempty"`
	LayoutType   string   `json:"layout_type,omitempty"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Dashboard is a full dashboard definition.
type Dashboard struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	AuthorInfo        *AuthorInfo        `json:"author_info,omitempty"`
	LayoutType        string             `json:"layout_type"`
	URL               string             `json:"url"`
	IsReadOnly        bool               `json:"is_read_only,omitempty"`
	TemplateVariables []TemplateVariable `json:"template_variables,omitempty"`
	Widgets           []Widget           `json:"widgets"`
	CreatedAt         string             `json:"created_at,omitempty"`
	ModifiedAt        string             `json:"modified_at,omitempty"`
	Tags              []string           `json:"tags,omitempty"`
}

// AuthorInfo identifies a dashboard author.
type AuthorInfo struct {
	Name   string `json:"name,omitempty"`
	Handle string `json:"handle,omitempty"`
	Email  string `json:"email,omitempty"`
}

// TemplateVariable is a dashboard template variable.
type TemplateVariable struct {
	Name            string   `json:"name"`
	Default         string   `json:"default,omitempty"`
	Prefix          string   `json:"prefix,omitempty"`
	AvailableValues []string `json:"available_values,omitempty"`
}

// Widget is a dashboard widget.
type Widget struct {
	ID         int64            `json:"id,omitempty"`
	Definition WidgetDefinition `json:"definition"`
	Layout     *WidgetLayout    `json:"layout,omitempty"`
}

// WidgetDefinition is the typed part of a widget. Group widgets carry their
// children in Widgets.
type WidgetDefinition struct {
	Type    string   `json:"type"`
	Title   string   `json:"title,omitempty"`
	Widgets []Widget `json:"widgets,omitempty"`
}

// WidgetLayout is the position of a widget on a dashboard grid.
type WidgetLayout struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ServicesResponse is the v2 service definitions response.
type ServicesResponse struct {
	Data  []Service      `json:"data"`
	Meta  *ServicesMeta  `json:"meta,omitempty"`
	Links *ServicesLinks `json:"links,omitempty"`
}

// Service is a service catalog entry. Attributes are kept as raw JSON since
// their shape depends on the schema version.
type Service struct {
	ID         string                     `json:"id,omitempty"`
	Type       string                     `json:"type,omitempty"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

// ServicesMeta carries warnings from the service catalog.
type ServicesMeta struct {
	Warnings []Warning `json:"warnings,omitempty"`
}

// ServicesLinks carries the next page link.
type ServicesLinks struct {
	Next string `json:"next,omitempty"`
}

// Warning is a non-fatal upstream warning.
type Warning struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
	Title  string `json:"title,omitempty"`
}

// LogsCompute is one aggregation of a logs analytics request.
type LogsCompute struct {
	Aggregation string `json:"aggregation"`
	Type        string `json:"type,omitempty"`
	Interval    string `json:"interval,omitempty"`
	Metric      string `json:"metric,omitempty"`
}

// LogsGroupBy is one grouping of a logs analytics request.
type LogsGroupBy struct {
	Facet string           `json:"facet"`
	Limit *int             `json:"limit,omitempty"`
	Sort  *LogsGroupBySort `json:"sort,omitempty"`
	Type  string           `json:"type,omitempty"`
}

// LogsGroupBySort orders the buckets of a group.
type LogsGroupBySort struct {
	Order       string `json:"order,omitempty"`
	Type        string `json:"type,omitempty"`
	Aggregation string `json:"aggregation,omitempty"`
	Metric      string `json:"metric,omitempty"`
}

// LogsAggregateRequest is the body of a logs analytics request.
type LogsAggregateRequest struct {
	Query    string
	From     string
	To       string
	Compute  []LogsCompute
	GroupBy  []LogsGroupBy
	Timezone string
}

// RUMEventsResponse is the v2 RUM search response.
type RUMEventsResponse struct {
	Data []RUMEvent `json:"data"`
	Meta *PageMeta  `json:"meta,omitempty"`
}

// RUMEvent is a single RUM event.
type RUMEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type,omitempty"`
	Attributes *RUMAttributes `json:"attributes,omitempty"`
}

// RUMAttributes holds the attributes of a RUM event.
type RUMAttributes struct {
	Timestamp   string          `json:"timestamp,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Service     string          `json:"service,omitempty"`
	Application *RUMApplication `json:"application,omitempty"`
	View        *RUMView        `json:"view,omitempty"`
	Session     *RUMSession     `json:"session,omitempty"`
	Action      *RUMAction      `json:"action,omitempty"`
	Resource    *RUMResource    `json:"resource,omitempty"`
	Error       *RUMError       `json:"error,omitempty"`
}

// RUMApplication identifies the application that emitted an event.
type RUMApplication struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// RUMView is the page view attached to an event.
type RUMView struct {
	Name        string `json:"name,omitempty"`
	URLPath     string `json:"url_path,omitempty"`
	LoadingTime *int64 `json:"loading_time,omitempty"`
	TimeSpent   *int64 `json:"time_spent,omitempty"`
}

// RUMSession is the user session attached to an event.
type RUMSession struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	HasReplay bool   `json:"has_replay,omitempty"`
}

// RUMAction is a user action.
type RUMAction struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	LoadingTime *int64 `json:"loading_time,omitempty"`
}

// RUMResource is a network resource loaded by the page.
type RUMResource struct {
	URL        string `json:"url,omitempty"`
	Method     string `json:"method,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`
	Duration   *int64 `json:"duration,omitempty"`
}

// RUMError is a front-end error.
type RUMError struct {
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`
	Type    string `json:"type,omitempty"`
	Stack   string `json:"stack,omitempty"`
	IsCrash bool   `json:"is_crash,omitempty"`
}
