package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// JSONCache stores JSON-encoded values under string keys.
type JSONCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type redisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewRedisCache(ctx context.Context, log *logger.Logger, cfg RedisConfig) (JSONCache, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "coursehub:"
	}
	return &redisCache{log: log.With("service", "RedisCache"), rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, c.prefix+key).Err()
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.prefix+k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

type noopCache struct{}

// Noop never stores anything. Used when Redis is not configured.
func Noop() JSONCache { return noopCache{} }

func (noopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, ...string) error               { return nil }
func (noopCache) Close() error                                          { return nil }
