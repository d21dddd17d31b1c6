// Package redis connects the go-redis client that backs the shared tenant lock.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"organmatch/internal/platform/config"
)

type Client struct {
	*redis.Client
}

// New returns nil, nil when no URL is configured; the server then falls back
// to the in-process lock.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return c, nil
}

// options overlays the non-zero pool settings onto the URL's options.
func options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	setIf(&opts.PoolSize, cfg.PoolSize)
	setIf(&opts.MinIdleConns, cfg.MinIdleConns)
	setIf(&opts.DialTimeout, cfg.DialTimeout)
	setIf(&opts.ReadTimeout, cfg.ReadTimeout)
	setIf(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func setIf[T int | ~int64](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
