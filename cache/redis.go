package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"TuneMart/logger"
)

// Redis is a Cache backed by a Redis instance. Backend failures are
// logged and reported as a miss; they never propagate to callers.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an already-connected client with the given entry TTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get returns the value for key, or a miss on absence or backend error.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("feed cache read failed, treating as miss",
				logger.String("key", key),
				logger.ErrorField(err),
			)
		}
		return nil, false
	}
	return val, true
}

// Set stores value under key with the cache TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		logger.Warn("feed cache write failed",
			logger.String("key", key),
			logger.ErrorField(err),
		)
	}
}

// Delete removes key. Idempotent if absent.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("feed cache delete failed",
			logger.String("key", key),
			logger.ErrorField(err),
		)
	}
}
