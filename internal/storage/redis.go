package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pageaudit/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore caches scrape results so repeat audits of the same page within
// the TTL window skip the external scrape API.
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

// CacheScrape stores a scrape result keyed by normalized URL.
func (s *RedisStore) CacheScrape(ctx context.Context, url string, result *domain.ScrapeResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("scrape:%s", url)
	return s.client.Set(ctx, key, data, ttl).Err()
}

// GetScrape returns the cached scrape result for a URL, or nil on a miss.
func (s *RedisStore) GetScrape(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	key := fmt.Sprintf("scrape:%s", url)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result domain.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
