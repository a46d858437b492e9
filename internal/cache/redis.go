package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// DefaultPrefix namespaces evaluation entries in a shared Redis
const DefaultPrefix = "profile-eval:"

// RedisCache stores evaluation outputs as JSON strings with a TTL
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps an existing client. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: DefaultPrefix, ttl: ttl}
}

// Connect parses a redis:// URL, opens a client and pings it
func Connect(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, &Error{Message: "invalid redis url", Cause: err}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, &Error{Message: "failed to ping redis", Cause: err}
	}
	return NewRedisCache(client, ttl), nil
}

// Get returns the cached output for key. A missing key is (nil, false, nil).
func (c *RedisCache) Get(ctx context.Context, key string) (*types.EvaluationOutput, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &Error{Message: "failed to read entry", Cause: err}
	}

	var out types.EvaluationOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, &Error{Message: "failed to decode entry", Cause: err}
	}
	return &out, true, nil
}

// Set stores out under key
func (c *RedisCache) Set(ctx context.Context, key string, out *types.EvaluationOutput) error {
	data, err := json.Marshal(out)
	if err != nil {
		return &Error{Message: "failed to encode entry", Cause: err}
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return &Error{Message: "failed to write entry", Cause: err}
	}
	return nil
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
