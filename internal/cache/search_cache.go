package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no entry exists for the given key.
var ErrCacheMiss = errors.New("cache miss")

// SearchCache stores serialized catalog search results in Redis with a TTL.
// The cache is best-effort: a nil SearchCache is valid and behaves as a
// permanent miss, so the API keeps working when Redis is not available.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache connects to Redis and returns a cache handle.
func NewSearchCache(redisURL, password string, ttl time.Duration) (*SearchCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opt.Password = password
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opt)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SearchCache{client: rdb, ttl: ttl}, nil
}

// Get unmarshals the cached value for key into dest.
func (c *SearchCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	return json.Unmarshal([]byte(raw), dest)
}

// Set marshals value and stores it under key with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *SearchCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
