// Package observe provides the telemetry stack for the server: a JSON
// structured logger, OpenTelemetry tracing and metrics, and a middleware
// that instruments every tool call.
//
// All output goes to stderr or to a network exporter. Stdout belongs to the
// JSON-RPC channel and is never written by this package.
package observe
