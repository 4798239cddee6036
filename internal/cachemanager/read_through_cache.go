package cachemanager

import "time"

// ReadThroughCache computes missing values with fn and stores them.
type ReadThroughCache[V any, I any] struct {
	cache CacheManager[V]
	fn    func(input I) V
	ttl   time.Duration
}

// NewReadThroughCache wraps cache with loader fn.
func NewReadThroughCache[V any, I any](cache CacheManager[V], fn func(input I) V, ttl time.Duration) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{cache: cache, fn: fn, ttl: ttl}
}

// Get returns the cached value for key, computing it from input on a miss.
func (r *ReadThroughCache[V, I]) Get(key string, input I) V {
	if value, ok := r.cache.Get(key); ok {
		return value
	}
	value := r.fn(input)
	r.cache.Set(key, value, r.ttl)
	return value
}

// Invalidate drops every entry under prefix.
func (r *ReadThroughCache[V, I]) Invalidate(prefix string) int {
	return r.cache.DeletePrefix(prefix)
}
