// Package cache owns the Redis connection used by the Redis history
// backend and namespaces the keys written through it.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/studybot/internal/platform/config"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "studybot"

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// Cache is a Redis client plus the key namespace of this deployment.
type Cache struct {
	Client *redis.Client
	prefix string
}

// Options turns the cache settings into client options. The URL must use
// the redis:// or rediss:// scheme.
func Options(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	return opts, nil
}

// New connects to Redis and pings it before returning.
func New(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging cache at %s: %w", opts.Addr, err)
	}

	prefix := strings.Trim(cfg.Prefix, ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{Client: client, prefix: prefix}, nil
}

// Key joins parts under the cache prefix: Key("history") is
// "studybot:history".
func (c *Cache) Key(parts ...string) string {
	return strings.Join(append([]string{c.prefix}, parts...), ":")
}

func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck pings the server.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
