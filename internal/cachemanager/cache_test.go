package cachemanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type layoutStub struct {
	Width int
	Lines int
}

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	cache := NewInMemoryCacheManager[layoutStub]("layouts", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("doc:1:80", layoutStub{Width: 80, Lines: 5}, 0)

	got, ok := cache.Get("doc:1:80")
	require.True(t, ok)
	require.Equal(t, layoutStub{Width: 80, Lines: 5}, got)

	_, ok = cache.Get("doc:1:40")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Expires(t *testing.T) {
	cache := NewInMemoryCacheManager[string]("short", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("k", "v", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndPrefix(t *testing.T) {
	cache := NewInMemoryCacheManager[int]("layouts", DefaultExpiration, DefaultCleanupInterval)
	cache.Set("a:1:80", 1, 0)
	cache.Set("a:1:40", 2, 0)
	cache.Set("a:2:80", 3, 0)
	cache.Set("b:1:80", 4, 0)

	require.Equal(t, 2, cache.DeletePrefix("a:1:"))
	require.Equal(t, 2, cache.Len())

	cache.Delete("a:2:80")
	_, ok := cache.Get("a:2:80")
	require.False(t, ok)

	cache.Flush()
	require.Equal(t, 0, cache.Len())
}

func TestReadThroughCache_ComputesOnce(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[int, int](
		NewInMemoryCacheManager[int]("squares", DefaultExpiration, DefaultCleanupInterval),
		func(n int) int {
			calls++
			return n * n
		},
		0,
	)

	require.Equal(t, 9, rt.Get("sq:3", 3))
	require.Equal(t, 9, rt.Get("sq:3", 3))
	require.Equal(t, 1, calls)

	require.Equal(t, 1, rt.Invalidate("sq:"))
	require.Equal(t, 9, rt.Get("sq:3", 3))
	require.Equal(t, 2, calls)
}
