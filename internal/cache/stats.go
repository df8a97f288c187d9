package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"service-rider-notify/internal/domain"
)

const statsKey = "notify:stats"

// StatsCache keeps the dashboard counters in redis for a short TTL so
// the stats endpoint does not hit postgres on every poll. Writers call
// Invalidate after any send or status change; a stale window up to the
// TTL is acceptable for this data.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached counters, or nil on a miss.
func (c *StatsCache) Get(ctx context.Context) (*domain.NotificationStats, error) {
	raw, err := c.rdb.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}
	var s domain.NotificationStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &s, nil
}

// Set stores the counters for the configured TTL.
func (c *StatsCache) Set(ctx context.Context, s domain.NotificationStats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached counters.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}
