package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "stats:dashboard"
	statsCacheTTL = 30 * time.Second
)

// StatsCache keeps the administrator dashboard counters in Redis for a short time
type StatsCache struct {
	client *Client
	ttl    time.Duration
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *Client) *StatsCache {
	return &StatsCache{client: client, ttl: statsCacheTTL}
}

// Get returns the cached counters, or nil on a miss
func (c *StatsCache) Get(ctx context.Context) (*domain.Stats, error) {
	data, err := c.client.rdb.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stats cache: %w", err)
	}

	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &stats, nil
}

// Set caches the counters
func (c *StatsCache) Set(ctx context.Context, stats *domain.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	return c.client.rdb.Set(ctx, statsCacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached counters after a content change
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.client.rdb.Del(ctx, statsCacheKey).Err()
}
