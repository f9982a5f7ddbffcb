// Package tools implements the Datadog tools exposed over MCP.
//
// A Router owns the tool catalog and dispatches tools/call requests to
// handlers. Handlers read their arguments through Args, call the Datadog
// client (through the resource cache for dashboards, monitors and events),
// and return compact projections of the upstream payloads shaped as
// {data, pagination?, meta?}.
//
// The helpers shared by handlers are exported so they can be tested on their
// own: ParseTime and FormatTimestamp, Paginate and the page descriptors,
// FilterTags, and the truncation functions.
package tools
