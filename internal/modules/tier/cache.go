// README: Active-tier list cache backed by Redis.
package tier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeTiersKey = "skyride:tiers:active"

// Cache stores the ordered active-tier list as one JSON value with a TTL.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redis *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redis, ttl: ttl}
}

// Get reports whether a cached list was found.
func (c *Cache) Get(ctx context.Context) ([]Tier, bool, error) {
	raw, err := c.redis.Get(ctx, activeTiersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tiers []Tier
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return nil, false, err
	}
	return tiers, true, nil
}

func (c *Cache) Set(ctx context.Context, tiers []Tier) error {
	raw, err := json.Marshal(tiers)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, activeTiersKey, raw, c.ttl).Err()
}

// Invalidate drops the cached tier list so the next read goes to the store.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, activeTiersKey).Err()
}
