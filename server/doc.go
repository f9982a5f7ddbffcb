// Package server runs the MCP protocol engine over newline-delimited JSON-RPC.
//
// An Engine reads one request per line, dispatches it against the tool
// router, and writes one response per line. Requests without an id are
// notifications and are never answered. Tool calls are rejected until the
// client has sent the initialized notification. A background sweeper evicts
// expired cache entries while the read loop runs.
//
// Only protocol envelopes are written to the output stream.
package server
