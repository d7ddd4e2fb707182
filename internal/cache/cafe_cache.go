package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"cafehub/internal/model"
)

// CafeCache keeps JSON snapshots of single cafes for the detail page.
type CafeCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCafeCache(client *redisv9.Client, ttl time.Duration) *CafeCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CafeCache{client: client, ttl: ttl}
}

func (c *CafeCache) Get(ctx context.Context, cafeID uint) (*model.Cafe, bool, error) {
	raw, err := c.client.Get(ctx, cafeKey(cafeID)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get cafe failed: %w", err)
	}

	var cafe model.Cafe
	if err := json.Unmarshal(raw, &cafe); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached cafe failed: %w", err)
	}
	return &cafe, true, nil
}

func (c *CafeCache) Set(ctx context.Context, cafe *model.Cafe) error {
	payload, err := json.Marshal(cafe)
	if err != nil {
		return fmt.Errorf("marshal cafe cache failed: %w", err)
	}
	if err := c.client.Set(ctx, cafeKey(cafe.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cafe failed: %w", err)
	}
	return nil
}

func (c *CafeCache) Delete(ctx context.Context, cafeID uint) error {
	if err := c.client.Del(ctx, cafeKey(cafeID)).Err(); err != nil {
		return fmt.Errorf("redis delete cafe failed: %w", err)
	}
	return nil
}

func cafeKey(cafeID uint) string {
	return fmt.Sprintf("cafehub:cafe:%d", cafeID)
}
