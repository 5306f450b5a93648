package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/logger"
)

// Redis persists documents into a Redis instance, one string value per key.
type Redis struct {
	raw  *redis.Client
	logg *logger.Logger
}

// NewRedis parses the configured URL, applies pool settings and verifies
// connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Redis, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis url is required for the redis kv backend")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "redis kv store ready")
	}

	return &Redis{raw: raw, logg: logg}, nil
}

func (r *Redis) Load(ctx context.Context, key string, out any) bool {
	raw, err := r.raw.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warn(ctx, key, "kv load failed", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		r.warn(ctx, key, "kv document corrupt, using defaults", err)
		return false
	}
	return true
}

func (r *Redis) Save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.warn(ctx, key, "kv marshal failed, state not persisted", err)
		return
	}
	if err := r.raw.Set(ctx, key, raw, 0).Err(); err != nil {
		r.warn(ctx, key, "kv save failed, state not persisted", err)
	}
}

// Ping verifies the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.raw.Ping(ctx).Err()
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.raw.Close()
}

func (r *Redis) warn(ctx context.Context, key, msg string, err error) {
	if r.logg == nil {
		return
	}
	ctx = r.logg.WithStoreKey(ctx, key)
	ctx = r.logg.WithField(ctx, "error", err.Error())
	r.logg.Warn(ctx, msg)
}
