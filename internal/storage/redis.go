package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore tracks recently scraped dates and retry counters.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MarkScraped sets a key with a TTL to prevent re-scraping a date.
func (s *RedisStore) MarkScraped(ctx context.Context, date string, ttl time.Duration) error {
	key := fmt.Sprintf("scraped:%s", date)
	return s.client.Set(ctx, key, "1", ttl).Err()
}

// IsRecentlyScraped checks if a date has been scraped within the TTL.
func (s *RedisStore) IsRecentlyScraped(ctx context.Context, date string) (bool, error) {
	key := fmt.Sprintf("scraped:%s", date)
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

// IncrementRetryCount increments the retry counter for a date.
func (s *RedisStore) IncrementRetryCount(ctx context.Context, date string) (int64, error) {
	key := fmt.Sprintf("retry:%s", date)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// Expire retry keys so they don't live forever
	s.client.Expire(ctx, key, 24*time.Hour)
	return count, nil
}
