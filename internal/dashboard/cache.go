package dashboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey      = "asset-management:dashboard:stats"
	generationCacheKey = "asset-management:dashboard:generation"
)

// Cache stores the serialized dashboard between inventory changes. Entries
// are keyed by generation: Invalidate moves to a new generation, so a fill
// computed before an invalidation lands under a key nobody reads anymore.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64) ([]byte, bool, error)
	Set(ctx context.Context, generation int64, payload []byte) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func statsKey(generation int64) string {
	return statsCacheKey + ":" + strconv.FormatInt(generation, 10)
}

func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationCacheKey).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get key %s: %w", generationCacheKey, err)
	}
	return gen, nil
}

func (c *RedisCache) Get(ctx context.Context, generation int64) ([]byte, bool, error) {
	key := statsKey(generation)
	val, err := c.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, generation int64, payload []byte) error {
	key := statsKey(generation)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the generation. Entries of older generations expire on their TTL.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to increment key %s: %w", generationCacheKey, err)
	}
	return nil
}

// NopCache is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (NopCache) Get(context.Context, int64) ([]byte, bool, error) {
	return nil, false, nil
}

func (NopCache) Set(context.Context, int64, []byte) error {
	return nil
}

func (NopCache) Invalidate(context.Context) error {
	return nil
}
