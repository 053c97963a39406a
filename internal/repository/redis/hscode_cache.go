package redis

import (
	"context"
	"encoding/json"
	"time"

	"agritrace/internal/domain"

	"github.com/redis/go-redis/v9"
)

// HSCodeCache is a read-through cache over HS code reference data, which is
// read-mostly and shared across service instances.
type HSCodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHSCodeCache(client *redis.Client, ttl time.Duration) *HSCodeCache {
	return &HSCodeCache{client: client, ttl: ttl}
}

func (c *HSCodeCache) Get(ctx context.Context, code string) (*domain.HSCode, error) {
	data, err := c.client.Get(ctx, cacheKey(code)).Result()
	if err != nil {
		return nil, err
	}

	var hsCode domain.HSCode
	if err := json.Unmarshal([]byte(data), &hsCode); err != nil {
		return nil, err
	}

	return &hsCode, nil
}

func (c *HSCodeCache) Set(ctx context.Context, hsCode *domain.HSCode) error {
	data, err := json.Marshal(hsCode)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, cacheKey(hsCode.Code), data, c.ttl).Err()
}

func cacheKey(code string) string {
	return "hscode:" + code
}
