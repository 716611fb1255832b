package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	lerrors "github.com/cyzmcl/Lunarian/pkg/errors"
)

// RedisCache stores entries in Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache connects lazily to the Redis server at url
// (redis://[user:pass@]host:port/db). No command is sent until first use.
func NewRedisCache(url string) (*RedisCache, error) {
	if url == "" {
		return nil, lerrors.New(lerrors.ErrCodeCache, "redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeCache, err, "parse redis url")
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements [Cache].
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, lerrors.Wrap(lerrors.ErrCodeCache, err, "redis get")
	}
	return data, true, nil
}

// Set implements [Cache].
func (r *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeCache, err, "redis set")
	}
	return nil
}

// Delete implements [Cache].
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeCache, err, "redis del")
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close implements [Cache].
func (r *RedisCache) Close() error {
	return r.client.Close()
}

var _ Cache = (*RedisCache)(nil)
