package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute), srv
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (interface{}, error) {
		loads++
		return map[string]string{"value": "cached"}, nil
	}

	key, err := cache.BuildKey(ctx, "reporting", "summary", "2024-03-01", "2024-04-01")
	require.NoError(t, err)

	var first map[string]string
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	var second map[string]string
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	require.Equal(t, 1, loads)
	require.Equal(t, "cached", second["value"])
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reporting", "summary")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, "reporting", "summary")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestCacheObserverSeesMissThenHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var outcomes []string
	cache.WithObserver(func(outcome string) { outcomes = append(outcomes, outcome) })

	loader := func(context.Context) (interface{}, error) {
		return map[string]string{"value": "cached"}, nil
	}
	key, err := cache.BuildKey(ctx, "reporting", "summary")
	require.NoError(t, err)

	var dest map[string]string
	require.NoError(t, cache.FetchJSON(ctx, key, &dest, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &dest, loader))
	require.Equal(t, []string{"miss", "hit"}, outcomes)
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var cache *ReportCache
	var dest map[string]int
	err := cache.FetchJSON(context.Background(), "any", &dest, func(context.Context) (interface{}, error) {
		return map[string]int{"n": 3}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, dest["n"])
}
