package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okunev/spotbooking/config"
	"github.com/okunev/spotbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	resourceTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, resourceTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		resourceTTL: resourceTTL,
	}
}

func (c *RedisCache) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	data, err := c.client.Get(ctx, resourceKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var resource domain.Resource
	if err := json.Unmarshal(data, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (c *RedisCache) SetResource(ctx context.Context, resource *domain.Resource) error {
	payload, err := json.Marshal(resource)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resourceKey(resource.ID), payload, c.resourceTTL).Err()
}

// AcquireSlotHold takes a short-lived exclusive hold on a resource/start
// pair so two callers racing for the same slot cannot both create a pending
// reservation between snapshot and insert.
func (c *RedisCache) AcquireSlotHold(ctx context.Context, resourceID string, start time.Time, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, slotHoldKey(resourceID, start), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSlotHold(ctx context.Context, resourceID string, start time.Time) error {
	return c.client.Del(ctx, slotHoldKey(resourceID, start)).Err()
}

func resourceKey(id string) string {
	return "cache:resource:" + id
}

func slotHoldKey(resourceID string, start time.Time) string {
	return fmt.Sprintf("hold:resource:%s:start:%d", resourceID, start.Unix())
}
