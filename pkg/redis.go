package pkg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. Returns nil when no Redis is
// configured; the cache layer degrades to direct reads in that case.
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Warn("Redis not configured, caching disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connected", "addr", opts.Addr)
	return client, nil
}
