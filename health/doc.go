// Package health reports the health of the server's dependencies over an
// optional HTTP listener.
//
// Two checkers are provided: CacheChecker reports resource cache occupancy
// and DatadogChecker validates the configured credentials against the
// Datadog API, remembering the outcome for a configurable interval. An
// Aggregator runs registered checkers concurrently and folds their results
// into one status.
//
// The listener exposes:
//
//	/healthz  liveness, always OK while the process serves
//	/readyz   aggregate status as text; 503 when any check is unhealthy
//	/health   per-check JSON detail
//	/metrics  Prometheus exposition of the default registry
//
// The listener is separate from the stdio protocol stream and never writes
// to stdout.
package health
