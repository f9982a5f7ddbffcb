// Package cache provides the in-memory result cache for Datadog listings.
//
// Cache is a generic TTL cache with least-recently-used eviction, Key derives
// deterministic fingerprints from an endpoint name and its parameters, and
// ResourceCache groups one cache per resource kind (dashboards, monitors,
// events) behind typed accessors with a shared sweep.
package cache
