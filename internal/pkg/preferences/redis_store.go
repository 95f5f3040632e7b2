package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis commands the store needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore persists one preference set per subject key.
type RedisStore struct {
	redis   RedisClient
	subject string
}

func NewRedisStore(client RedisClient, subject string) *RedisStore {
	return &RedisStore{
		redis:   client,
		subject: subject,
	}
}

func (s *RedisStore) key() string {
	return fmt.Sprintf("preferences:%s", s.subject)
}

func (s *RedisStore) Load(ctx context.Context) (Preferences, error) {
	data, err := s.redis.Get(ctx, s.key()).Bytes()
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	return prefs, nil
}

func (s *RedisStore) Save(ctx context.Context, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return nil
}
