package app

import (
	"context"
	"fmt"

	"github.com/yungbote/coursehub-backend/internal/platform/cache"
	"github.com/yungbote/coursehub-backend/internal/platform/gcp"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type Clients struct {
	Bucket gcp.BucketService
	Cache  cache.JSONCache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Gcs
	var bucket gcp.BucketService
	if cfg.MediaBucket == "" && !cfg.IsProduction() {
		log.Warn("MEDIA_GCS_BUCKET_NAME not set; media uploads are disabled")
		bucket = gcp.Disabled()
	} else {
		b, err := gcp.NewBucketService(ctx, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init bucket client: %w", err)
		}
		bucket = b
	}

	// Redis
	jsonCache := cache.Noop()
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisCache(ctx, log, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "coursehub",
		})
		if err != nil {
			// The cache only fronts analytics reads.
			log.Warn("redis unavailable; analytics cache disabled", "error", err)
		} else {
			jsonCache = c
		}
	}

	return Clients{Bucket: bucket, Cache: jsonCache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
}
