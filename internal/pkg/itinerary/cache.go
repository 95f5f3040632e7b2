package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Cache stores adapted search results keyed by the search criteria so
// concurrent identical searches hit the upstream backend once.
type Cache struct {
	redis RedisClient
}

func NewCache(redis RedisClient) *Cache {
	return &Cache{
		redis: redis,
	}
}

func (c *Cache) LockKey(req dto.SearchRequest) string {
	return fmt.Sprintf("routes:lock:%s:%s:%s", req.Date, req.Origin, req.Destination)
}

func (c *Cache) CacheKey(req dto.SearchRequest) string {
	return fmt.Sprintf("routes:cache:%s:%s:%s", req.Date, req.Origin, req.Destination)
}

func (c *Cache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

func (c *Cache) SetResult(ctx context.Context,
	key string,
	result dto.SearchResult,
	stats Stats,
	expiration time.Duration,
) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set search result: %w", err)
	}

	statsBytes, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal adaptation stats: %w", err)
	}

	if err := c.redis.Set(ctx, key+":stats", statsBytes, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set adaptation stats: %w", err)
	}

	return nil
}

func (c *Cache) GetResult(ctx context.Context, key string) (dto.SearchResult, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return dto.SearchResult{}, err
	}

	var result dto.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return dto.SearchResult{}, err
	}

	return result, nil
}

// GetStats restores the adaptation stats persisted next to a cached
// result, so a cache hit reports the shape and malformed count seen
// when the entry was filled.
func (c *Cache) GetStats(ctx context.Context, key string) (Stats, error) {
	statsBytes, err := c.redis.Get(ctx, key+":stats").Bytes()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	if err := json.Unmarshal(statsBytes, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}
