// Package cache provides the Redis access layer used for request throttling.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tune the client created by New.
type Options struct {
	PoolSize     int
	MinIdleConns int
	// Namespace prefixes every key the cache writes, so several deployments
	// can share one Redis database.
	Namespace string
}

// DefaultOptions returns the pool sizing used by the API server.
func DefaultOptions() Options {
	return Options{
		PoolSize:     10,
		MinIdleConns: 2,
		Namespace:    "culinarynotes",
	}
}

// Cache wraps a Redis client with namespaced keys.
type Cache struct {
	client    *redis.Client
	namespace string
	now       func() time.Time
}

// New connects to redisURL and verifies the connection with a PING.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if opts.PoolSize > 0 {
		opt.PoolSize = opts.PoolSize
	}
	opt.MinIdleConns = opts.MinIdleConns
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client, opts.Namespace), nil
}

// NewWithClient wraps an existing client. An empty namespace leaves keys unprefixed.
func NewWithClient(client *redis.Client, namespace string) *Cache {
	return &Cache{client: client, namespace: namespace, now: time.Now}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) key(parts ...string) string {
	k := strings.Join(parts, ":")
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}
