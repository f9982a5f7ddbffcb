package tools

import "fmt"

// Tool is a catalog entry as listed by tools/list.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// Schema is the JSON schema subset used to describe tool arguments.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one argument.
type Property struct {
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Default     any     `json:"default,omitempty"`
	Items       *Schema `json:"items,omitempty"`
}

func object(props map[string]Property, required ...string) Schema {
	return Schema{Type: "object", Properties: props, Required: required}
}

func str(desc string) Property            { return Property{Type: "string", Description: desc} }
func strDef(desc string, def any) Property { return Property{Type: "string", Description: desc, Default: def} }
func integer(desc string) Property        { return Property{Type: "integer", Description: desc} }
func intDef(desc string, def int) Property {
	return Property{Type: "integer", Description: desc, Default: def}
}

func array(desc string, items Schema) Property {
	return Property{Type: "array", Description: desc, Items: &items}
}

// Shared argument descriptions.
const (
	descFrom      = "Start time (supports natural language like '1 hour ago', ISO8601, or Unix timestamps)"
	descTo        = "End time (supports natural language like 'now', ISO8601, or Unix timestamps)"
	descFreshPage = "Page number (0-based). Page 0 always fetches fresh data from Datadog API."
	descPage      = "Page number (0-based, for client-side pagination)"
	descFullStack = "Return full stack traces instead of the first 10 lines"
	descTimezone  = "Timezone for time-based operations (e.g., 'UTC', 'America/New_York')"
)

func tagFilterDescription(def string) string {
	return fmt.Sprintf("Comma-separated tag prefixes to include (e.g., 'env:,service:,version:'). "+
		"Use '*' for all tags (default), '' (empty) to exclude all tags. Current default: '%s'", def)
}

// catalog returns the tool definitions in listing order. tagFilterDefault is
// the configured default tag filter shown in tag_filter descriptions.
func catalog(tagFilterDefault string) []Tool {
	tagFilter := str(tagFilterDescription(tagFilterDefault))

	return []Tool{
		{
			Name:        "datadog_metrics_query",
			Description: "Query time series metrics from Datadog. Returns metric data points with timestamps and values. Supports natural language time expressions ('1 hour ago'), ISO8601, and Unix timestamps.",
			InputSchema: object(map[string]Property{
				"query":      str("Metrics query (e.g., 'avg:system.cpu.user{*}')"),
				"from":       strDef(descFrom, DefaultFrom),
				"to":         strDef(descTo, DefaultTo),
				"max_points": integer("Maximum number of data points to return. A rollup is added to the query so large time ranges stay small."),
			}, "query"),
		},
		{
			Name:        "datadog_logs_search",
			Description: "Search log events in Datadog. Returns log entries with timestamps, messages, and metadata. Supports Datadog query syntax and natural language time expressions.",
			InputSchema: object(map[string]Property{
				"query":      str("Log search query"),
				"from":       strDef(descFrom, DefaultFrom),
				"to":         strDef(descTo, DefaultTo),
				"limit":      intDef("Maximum number of logs to return", 10),
				"tag_filter": tagFilter,
			}, "query"),
		},
		{
			Name:        "datadog_monitors_list",
			Description: "List all monitors from Datadog. Returns monitor names, types, queries, and states. Supports filtering by tags. Page 0 always fetches fresh data, subsequent pages use cache.",
			InputSchema: object(map[string]Property{
				"tags":         str("Filter by tags (comma-separated)"),
				"monitor_tags": str("Filter by monitor tags"),
				"page":         intDef(descFreshPage, DefaultPage),
				"page_size":    intDef("Number of monitors per page", DefaultPageSize),
			}),
		},
		{
			Name:        "datadog_monitors_get",
			Description: "Retrieve detailed information about a specific monitor by ID. Returns full monitor configuration, thresholds, notification settings, and current state.",
			InputSchema: object(map[string]Property{
				"monitor_id": integer("Monitor ID"),
			}, "monitor_id"),
		},
		{
			Name:        "datadog_events_query",
			Description: "Query event stream from Datadog. Returns events with titles, text, timestamps, and alert types. Supports filtering by priority, sources, and tags. Page 0 fetches fresh data.",
			InputSchema: object(map[string]Property{
				"from":      strDef(descFrom, DefaultFrom),
				"to":        strDef(descTo, DefaultTo),
				"priority":  str("Priority filter (normal, low)"),
				"sources":   str("Sources filter"),
				"tags":      str("Tags filter"),
				"page":      intDef(descFreshPage, DefaultPage),
				"page_size": intDef("Number of events per page", DefaultPageSize),
			}),
		},
		{
			Name:        "datadog_hosts_list",
			Description: "List infrastructure hosts from Datadog. Returns host names, status, applications, sources, and tags. Supports filtering and sorting by various fields.",
			InputSchema: object(map[string]Property{
				"filter":     str("Host filter query"),
				"from":       strDef("Only hosts reporting since this time (supports natural language like '1 hour ago', ISO8601, or Unix timestamps)", DefaultFrom),
				"sort_field": str("Sort field"),
				"sort_dir":   str("Sort direction (asc, desc)"),
				"start":      intDef("Starting index for pagination", 0),
				"count":      intDef("Number of hosts to return (max 1000)", DefaultHostCount),
				"tag_filter": tagFilter,
			}),
		},
		{
			Name:        "datadog_dashboards_list",
			Description: "List all dashboards from Datadog. Returns dashboard IDs, titles, and descriptions. Page 0 fetches fresh data, subsequent pages use cache.",
			InputSchema: object(map[string]Property{
				"page":      intDef(descFreshPage, DefaultPage),
				"page_size": intDef("Number of dashboards per page", DefaultPageSize),
			}),
		},
		{
			Name:        "datadog_dashboards_get",
			Description: "Retrieve full dashboard configuration by ID. Returns title, description, layout type, widgets, template variables, and author information.",
			InputSchema: object(map[string]Property{
				"dashboard_id": str("Dashboard ID"),
			}, "dashboard_id"),
		},
		{
			Name:        "datadog_spans_search",
			Description: "Search APM trace spans from Datadog. Returns span details with timing, service information, and trace IDs. Supports cursor-based pagination and sorting.",
			InputSchema: object(map[string]Property{
				"query":            strDef("Spans search query", "*"),
				"from":             str(descFrom),
				"to":               str(descTo),
				"limit":            intDef("Maximum number of spans to return", DefaultSpansPageSize),
				"cursor":           str("Pagination cursor"),
				"sort":             str("Sort order (e.g., 'timestamp')"),
				"page":             intDef(descPage, DefaultPage),
				"page_size":        intDef("Number of spans per page", DefaultSpansPageSize),
				"full_stack_trace": {Type: "boolean", Description: descFullStack, Default: false},
				"tag_filter":       tagFilter,
			}, "from", "to"),
		},
		{
			Name:        "datadog_services_list",
			Description: "List services from APM service catalog. Returns service names, teams, repositories, integrations, and metadata. Supports environment filtering.",
			InputSchema: object(map[string]Property{
				"env":       str("Filter by environment (e.g., 'production', 'staging')"),
				"page":      intDef(descPage, DefaultPage),
				"page_size": intDef("Number of services per page", DefaultPageSize),
			}),
		},
		{
			Name:        "datadog_logs_aggregate",
			Description: "Aggregate log events into buckets and compute metrics. Returns aggregated data with count, sum, avg, min, max, or percentiles. Supports grouping by log attributes.",
			InputSchema: object(map[string]Property{
				"query": strDef("Log search query", "*"),
				"from":  str(descFrom),
				"to":    str(descTo),
				"compute": array("Array of compute aggregations (count, sum, avg, min, max, pc99)", object(map[string]Property{
					"aggregation": {Type: "string"},
					"type":        {Type: "string"},
					"interval":    {Type: "string"},
					"metric":      {Type: "string"},
				})),
				"group_by": array("Array of fields to group by", object(map[string]Property{
					"facet": {Type: "string"},
					"limit": {Type: "integer"},
					"sort":  {Type: "object"},
				})),
				"timezone": str(descTimezone),
			}, "from", "to"),
		},
		{
			Name:        "datadog_logs_timeseries",
			Description: "Generate time series data from log events. Returns bucketed metrics over time with configurable intervals (1m, 5m, 1h). Supports count, sum, avg, and percentile aggregations.",
			InputSchema: object(map[string]Property{
				"query":       strDef("Log search query", "*"),
				"from":        str(descFrom),
				"to":          str(descTo),
				"interval":    strDef("Time interval for timeseries (e.g., '1m', '5m', '1h')", defaultLogsInterval),
				"aggregation": strDef("Aggregation type (count, sum, avg, min, max, pc99)", defaultAggregation),
				"metric":      str("Field to aggregate on (for non-count aggregations)"),
				"group_by": array("Array of fields to group by", object(map[string]Property{
					"facet": {Type: "string"},
					"limit": {Type: "integer"},
				})),
				"timezone": str(descTimezone),
			}, "from", "to"),
		},
		{
			Name:        "datadog_rum_events_search",
			Description: "Search Real User Monitoring events from Datadog. Returns views, sessions, actions, resources, and errors with only their populated fields. Supports cursor-based pagination.",
			InputSchema: object(map[string]Property{
				"query":            strDef("RUM search query", "*"),
				"from":             strDef(descFrom, DefaultFrom),
				"to":               strDef(descTo, DefaultTo),
				"limit":            intDef("Maximum number of events to return", 10),
				"cursor":           str("Pagination cursor"),
				"sort":             str("Sort order (e.g., 'timestamp', '-timestamp')"),
				"full_stack_trace": {Type: "boolean", Description: descFullStack, Default: false},
				"tag_filter":       tagFilter,
			}),
		},
	}
}
