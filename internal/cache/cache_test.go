package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, ttl), mr
}

func TestCacheStoreThenLoad(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	expected := []entry{{ID: 1, Title: "Write code"}}

	var miss []entry
	assert.False(t, c.Load(ctx, GroupTasks, "active:0:100", &miss))

	c.Store(ctx, GroupTasks, "active:0:100", expected)

	var got []entry
	require.True(t, c.Load(ctx, GroupTasks, "active:0:100", &got))
	assert.Equal(t, expected, got)

	ttl := mr.TTL(GroupTasks)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL: %v", ttl)
}

func TestCacheEvictDropsEveryPage(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Store(ctx, GroupTasks, "active:0:100", []entry{{ID: 1}})
	c.Store(ctx, GroupTasks, "archived:0:200", []entry{{ID: 2}})
	c.Store(ctx, GroupTags, "all", []string{"ops"})

	c.Evict(ctx, GroupTasks)

	assert.False(t, mr.Exists(GroupTasks))
	assert.True(t, mr.Exists(GroupTags))
}

func TestCacheCorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	mr.HSet(GroupTags, "all", "{not json")

	var names []string
	assert.False(t, c.Load(ctx, GroupTags, "all", &names))
	assert.False(t, mr.Exists(GroupTags))
}

func TestCacheZeroTTLDoesNotStore(t *testing.T) {
	c, mr := newTestCache(t, 0)

	c.Store(context.Background(), GroupTags, "all", []string{"ops"})

	assert.False(t, mr.Exists(GroupTags))
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var names []string
	assert.False(t, c.Load(ctx, GroupTags, "all", &names))
	c.Store(ctx, GroupTags, "all", []string{"x"})
	c.Evict(ctx, GroupTags)
	assert.NoError(t, c.Ping(ctx))

	disabled := New(nil, time.Minute)
	assert.False(t, disabled.Load(ctx, GroupTags, "all", &names))
}
