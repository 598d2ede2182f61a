package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache over Redis. A Cache with a nil client is
// valid and caches nothing, so the service runs without a Redis server
// (every read is then a miss and every write a no-op).
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. An empty addr returns a disabled cache.
func New(addr string) *Cache {
	if addr == "" {
		log.Println("EDITGROUPS_REDIS_ADDR not set - course cache disabled")
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	log.Printf("Course cache using redis at %s", addr)
	return &Cache{client: client, ttl: time.Hour}
}

// Get unmarshals the cached value for key into dest.
// Returns false on a miss or when the cache is disabled.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A stale or corrupt entry is treated as a miss and dropped.
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// Set stores value under key as JSON.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("Warning: failed to cache %s: %v", key, err)
	}
}

// Delete removes key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("Warning: failed to invalidate %s: %v", key, err)
	}
}
