package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/club-engine/internal/domain"
)

const overdueKey = "dues:overdue"

// ErrMiss is returned when the requested key is not cached.
var ErrMiss = stderrors.New("cache miss")

// RedisCache caches due listings in redis as JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// GetOverdue returns the cached overdue listing, or ErrMiss.
func (c *RedisCache) GetOverdue(ctx context.Context) ([]*domain.Due, error) {
	data, err := c.client.Get(ctx, overdueKey).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var dues []*domain.Due
	if err := json.Unmarshal(data, &dues); err != nil {
		return nil, err
	}
	return dues, nil
}

func (c *RedisCache) SetOverdue(ctx context.Context, dues []*domain.Due) error {
	data, err := json.Marshal(dues)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, overdueKey, data, c.ttl).Err()
}

func (c *RedisCache) InvalidateOverdue(ctx context.Context) error {
	return c.client.Del(ctx, overdueKey).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Noop never caches. Used when redis is not configured.
type Noop struct{}

func (Noop) GetOverdue(context.Context) ([]*domain.Due, error) { return nil, ErrMiss }
func (Noop) SetOverdue(context.Context, []*domain.Due) error   { return nil }
func (Noop) InvalidateOverdue(context.Context) error           { return nil }
func (Noop) Ping(context.Context) error                        { return nil }
