package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	seenKeyPrefix = "jobradar:seen:"
	seenTTL       = 14 * 24 * time.Hour
)

// NewRedisClient parses the URL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisSeenCache remembers recently accepted posting identities so repeated
// scrape cycles skip the database lookup for listings seen days in a row.
// Entries expire so the cache never outlives posting churn by much.
type RedisSeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSeenCache(client *redis.Client) *RedisSeenCache {
	return &RedisSeenCache{client: client, ttl: seenTTL}
}

func (c *RedisSeenCache) Seen(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, seenKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("seen lookup: %w", err)
	}
	return n > 0, nil
}

func (c *RedisSeenCache) MarkSeen(ctx context.Context, key string) error {
	if err := c.client.Set(ctx, seenKeyPrefix+key, "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}
