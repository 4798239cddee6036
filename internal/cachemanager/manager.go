// Package cachemanager provides a typed TTL cache and a read-through wrapper.
// The engine keeps computed layouts here, keyed by document revision and width.
package cachemanager

import "time"

// CacheManager is a typed key/value cache with per-entry TTL.
type CacheManager[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(keys ...string)
	DeletePrefix(prefix string) int
	Flush()
	Len() int
}
