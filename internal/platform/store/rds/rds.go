// Package rds provides a Redis client used for ephemeral key value state
package rds

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config configures redis connectivity
type Config struct {
	// URL takes precedence when set, e.g. redis://localhost:6379/0
	URL  string
	Addr string
	DB   int
}

// RDS is a redis client wrapper
type RDS struct {
	Client *redis.Client
}

// Open creates a new redis client; it does not ping
func Open(cfg Config) (*RDS, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Addr, DB: cfg.DB}
	}
	return &RDS{Client: redis.NewClient(opts)}, nil
}

// Ping verifies connectivity
func (r *RDS) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *RDS) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
