package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"healthmon/internal/domain"
)

// Cache wraps the Redis client used for session storage and the
// latest-vitals fast path on the dashboard.
type Cache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func New(addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		MaxRetries: 3,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &Cache{client: client, ctx: ctx, ttl: ttl}, nil
}

func latestKey(userID string) string { return "vitals:latest:" + userID }

// StoreLatest caches the newest record for a user.
func (c *Cache) StoreLatest(rec *domain.HealthRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal latest vitals: %w", err)
	}
	return c.client.Set(c.ctx, latestKey(rec.UserID), data, c.ttl).Err()
}

// Latest returns the cached newest record, or nil on a miss.
func (c *Cache) Latest(userID string) (*domain.HealthRecord, error) {
	data, err := c.client.Get(c.ctx, latestKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec domain.HealthRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal latest vitals: %w", err)
	}
	return &rec, nil
}

func (c *Cache) Ping() error { return c.client.Ping(c.ctx).Err() }

func (c *Cache) Close() error { return c.client.Close() }
