package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// TrendingKey is the Redis key holding the cached trending list.
const TrendingKey = "deals:trending"

// RedisClient is the subset of *redis.Client used by the cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// TrendingCache stores the computed trending deals in Redis with a TTL.
type TrendingCache struct {
	client RedisClient
	ttl    time.Duration
}

// NewTrendingCache creates a TrendingCache over client.
func NewTrendingCache(client RedisClient, ttl time.Duration) *TrendingCache {
	return &TrendingCache{client: client, ttl: ttl}
}

// GetTrending returns the cached list. ok is false on a cache miss.
func (c *TrendingCache) GetTrending(ctx context.Context) ([]model.Deal, bool, error) {
	raw, err := c.client.Get(ctx, TrendingKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get trending: %w", err)
	}

	var deals []model.Deal
	if err := json.Unmarshal(raw, &deals); err != nil {
		return nil, false, fmt.Errorf("decode trending: %w", err)
	}
	return deals, true, nil
}

// SetTrending replaces the cached list.
func (c *TrendingCache) SetTrending(ctx context.Context, deals []model.Deal) error {
	raw, err := json.Marshal(deals)
	if err != nil {
		return fmt.Errorf("encode trending: %w", err)
	}
	if err := c.client.Set(ctx, TrendingKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set trending: %w", err)
	}
	return nil
}

// Invalidate drops the cached list so the next read recomputes it.
func (c *TrendingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, TrendingKey).Err(); err != nil {
		return fmt.Errorf("invalidate trending: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity for health checks.
func (c *TrendingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// NoopTrendingCache never hits. Used when Redis is disabled.
type NoopTrendingCache struct{}

// GetTrending always reports a miss.
func (NoopTrendingCache) GetTrending(context.Context) ([]model.Deal, bool, error) {
	return nil, false, nil
}

// SetTrending discards deals.
func (NoopTrendingCache) SetTrending(context.Context, []model.Deal) error { return nil }

// Invalidate does nothing.
func (NoopTrendingCache) Invalidate(context.Context) error { return nil }
