// Package bootstrap turns a config.Config into the dataset source, cache and
// rate limiter the commands share.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/diet-insights/backend/config"
	"github.com/pageza/diet-insights/backend/internal/cache"
	"github.com/pageza/diet-insights/backend/internal/database"
	"github.com/pageza/diet-insights/backend/internal/dataset"
	"github.com/pageza/diet-insights/backend/internal/middleware"
)

// MigrationsDir is where RunMigrations looks for SQL files when
// DB_AUTO_MIGRATE is set.
var MigrationsDir = "migrations"

// Source is an opened dataset source and the resources behind it.
type Source struct {
	dataset.Source
	DB *gorm.DB
	S3 *config.S3Config
}

// Close releases the database connection, if any.
func (s *Source) Close() error {
	if s.DB != nil {
		return database.Close(s.DB)
	}
	return nil
}

// OpenSource builds the source selected by DATASET_SOURCE. A file source is
// watched for changes when DATASET_WATCH is set, until ctx is cancelled.
func OpenSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Source, error) {
	opts := dataset.ParseOptions{Dedupe: cfg.DatasetDedupe}

	switch cfg.DatasetSource {
	case config.SourceFile:
		src := dataset.NewFileSource(cfg.DatasetPath, opts, logger)
		if cfg.DatasetWatch {
			if err := src.Watch(ctx); err != nil {
				return nil, fmt.Errorf("watch dataset: %w", err)
			}
		}
		return &Source{Source: src}, nil

	case config.SourceS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		src := dataset.NewS3Source(s3cfg.Client, s3cfg.BucketName, cfg.DatasetKey, opts, logger)
		return &Source{Source: src, S3: s3cfg}, nil

	case config.SourceDatabase:
		db, err := OpenDatabase(cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Source{Source: dataset.NewDBSource(db, logger), DB: db}, nil

	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.DatasetSource)
	}
}

// OpenDatabase connects gorm and applies migrations when DB_AUTO_MIGRATE is
// set.
func OpenDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate || cfg.DBDriver == "sqlite" {
		if err := database.RunMigrations(db, MigrationsDir, logger); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return db, nil
}

// OpenRedis connects to Redis. Redis is optional: on failure the error is
// logged and nil returned, so callers fall back to in-process behaviour.
func OpenRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	client, err := database.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, continuing without shared cache and rate limits", zap.Error(err))
		return nil
	}
	return client
}

// NewCache returns a Redis-backed cache, or a no-op cache without Redis or
// with a non-positive TTL.
func NewCache(client *redis.Client, cfg *config.Config) cache.Cache {
	if client == nil || cfg.CacheTTL <= 0 {
		return cache.Noop{}
	}
	return cache.NewRedisCache(client, cfg.CacheTTL, "diet-insights")
}

// NewRateLimiter returns nil when rate limiting is disabled.
func NewRateLimiter(client *redis.Client, cfg *config.Config, logger *zap.Logger) *middleware.RateLimiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimit,
		KeyPrefix: "rate_limit:api",
	}, logger)
}
