// Package cache implements the in-process caching layer: a
// multi-namespace key/value store with per-namespace expiration policy,
// hit/miss accounting, eviction-triggered background refresh and
// cross-entity invalidation cascades.
//
// The cache is explicitly constructed and owned: build a Service at
// process start, inject it into callers, and stop it at shutdown. There
// is no package-level singleton.
package cache
