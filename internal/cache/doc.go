// Package cache stores upstream API responses keyed by a hash of the
// tool name and request payload.
//
// The hot path is an in-memory LRU with TTL eviction. When a database
// path is configured, entries are also written through to SQLite so a
// restarted server can serve recent results without refetching. Stale
// persistent rows are ignored on read and pruned opportunistically.
package cache
