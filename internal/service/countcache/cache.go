package countcache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps unread notification counts in redis. A nil Cache, or one
// without a client, caches nothing.
type Cache struct {
	client *redis.Client
	wikiID string
	ttl    time.Duration
}

func New(client *redis.Client, wikiID string, ttl time.Duration) *Cache {
	return &Cache{client: client, wikiID: wikiID, ttl: ttl}
}

func Key(wikiID string, userID int64) string {
	return "echo:unread:" + wikiID + ":" + strconv.FormatInt(userID, 10)
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Get(ctx context.Context, userID int64) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}
	count, err := c.client.Get(ctx, Key(c.wikiID, userID)).Int64()
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *Cache) Set(ctx context.Context, userID, count int64) {
	if !c.enabled() {
		return
	}
	_ = c.client.Set(ctx, Key(c.wikiID, userID), count, c.ttl).Err()
}

// InvalidateCount drops the cached count of userID.
func (c *Cache) InvalidateCount(ctx context.Context, userID int64) {
	if !c.enabled() {
		return
	}
	_ = c.client.Del(ctx, Key(c.wikiID, userID)).Err()
}
