package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSON(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "reports", "sales", "2025-03-01", "2025-03-31")
	require.NoError(t, err)

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return map[string]int{"total": 42}, nil
	}

	var first map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, 42, first["total"])
	require.Equal(t, 1, loads)

	var second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 42, second["total"])
	require.Equal(t, 1, loads, "second fetch should hit the cache")
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reports", "sales", "2025-03-01", "2025-03-31")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "reports", "sales", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.NotEqual(t, before, after, "bump must change the derived key")
}

func TestCacheNilDegradesToLoader(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "reports", "sales", "a", "b")
	require.NoError(t, err)

	var dest map[string]int
	err = cache.FetchJSON(ctx, key, &dest, func(ctx context.Context) (interface{}, error) {
		return map[string]int{"total": 7}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, dest["total"])

	require.NoError(t, cache.Bump(ctx))
}
