// Package cache keeps short-lived copies of board list responses in Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached groups. Each group is one Redis hash, so a single DEL drops every
// page of a listing.
const (
	GroupTasks = "board:tasks"
	GroupTags  = "board:tags"
)

// Cache is a read-through helper over Redis hashes. A nil *Cache or a Cache
// without a client is a valid no-op cache.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// New creates a cache using the provided Redis client and TTL.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{redis: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.redis != nil
}

// Load decodes the cached value of field in group into dst and reports
// whether it was found.
func (c *Cache) Load(ctx context.Context, group, field string, dst any) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.redis.HGet(ctx, group, field).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the database without failing.
			_ = c.redis.Del(ctx, group).Err()
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = c.redis.Del(ctx, group).Err()
		return false
	}
	return true
}

// Store caches v under field in group. The group expires ttl after the
// last store.
func (c *Cache) Store(ctx context.Context, group, field string, v any) {
	if !c.enabled() || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, group, field, data)
		pipe.Expire(ctx, group, c.ttl)
		return nil
	})
}

// Evict drops whole groups.
func (c *Cache) Evict(ctx context.Context, groups ...string) {
	if !c.enabled() || len(groups) == 0 {
		return
	}
	_, _ = c.redis.Del(ctx, groups...).Result()
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}
