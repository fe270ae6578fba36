package tier

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheMissThenHit(t *testing.T) {
	_, client := setupMiniredis(t)
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	tiers := []Tier{
		{ID: "t1", Name: "SkyHop", MaxPassengers: 2, BaseFare: 100, PerKmRate: 15, EstimatedArrivalMinutes: 5, IsActive: true, DisplayOrder: 1},
		{ID: "t2", Name: "SkyLux", MaxPassengers: 4, BaseFare: 250, PerKmRate: 30, EstimatedArrivalMinutes: 10, IsActive: true, DisplayOrder: 2},
	}
	require.NoError(t, cache.Set(ctx, tiers))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tiers, got)
}

func TestCacheExpires(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewCache(client, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []Tier{{ID: "t1"}}))
	assert.Equal(t, 30*time.Second, mr.TTL(activeTiersKey))

	mr.FastForward(31 * time.Second)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	_, client := setupMiniredis(t)
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []Tier{{ID: "t1"}}))
	require.NoError(t, cache.Invalidate(ctx))

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheCorruptValue(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewCache(client, time.Minute)
	require.NoError(t, mr.Set(activeTiersKey, "not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
