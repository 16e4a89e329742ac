package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOptions holds Redis cache settings.
type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

// RedisOption configures the Redis-backed cache.
type RedisOption func(*redisOptions)

// WithPrefix namespaces all keys with prefix + ":".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) { o.prefix = prefix }
}

// WithRedisDefaultTTL sets the TTL applied when Set is called with zero TTL.
func WithRedisDefaultTTL(ttl time.Duration) RedisOption {
	return func(o *redisOptions) { o.defaultTTL = ttl }
}

// Redis is a cache backed by Redis; values are stored as JSON.
// The client lifecycle belongs to the caller, so Close is a no-op.
type Redis[V any] struct {
	client redis.UniversalClient
	opts   redisOptions
}

// NewRedis creates a new Redis-backed cache.
func NewRedis[V any](client redis.UniversalClient, opts ...RedisOption) *Redis[V] {
	o := redisOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis[V]{client: client, opts: o}
}

// Get retrieves a value by key. Returns ErrNotFound when the key is absent.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return unmarshalJSON[V](data)
}

// Set stores a value with the given TTL. A negative TTL maps to Redis's
// "no expiration" (0).
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := marshalJSON(value)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

// Delete removes a key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close is a no-op; the Redis client is managed by the caller.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}
