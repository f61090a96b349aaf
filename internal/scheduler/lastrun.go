package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastRunKey = "planme:completion:last_run"

// LastRunCache keeps the most recent run summary in Redis so the status
// endpoint can report it. Best effort only; the run itself never depends
// on this cache.
type LastRunCache struct {
	rdb *redis.Client
}

// NewLastRunCache creates a cache client from a Redis URL.
func NewLastRunCache(redisURL string) (*LastRunCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &LastRunCache{rdb: redis.NewClient(opts)}, nil
}

// Store persists the summary with a 48h TTL (two missed runs make a stale
// summary useless anyway).
func (c *LastRunCache) Store(ctx context.Context, summary Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := c.rdb.Set(ctx, lastRunKey, payload, 48*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to cache run summary: %w", err)
	}
	return nil
}

// Load returns the cached summary, or (nil, nil) when none is stored.
func (c *LastRunCache) Load(ctx context.Context) (*Summary, error) {
	payload, err := c.rdb.Get(ctx, lastRunKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached run summary: %w", err)
	}

	var summary Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached run summary: %w", err)
	}
	return &summary, nil
}

// Close closes the Redis client connection.
func (c *LastRunCache) Close() error {
	return c.rdb.Close()
}
