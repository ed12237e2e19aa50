package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/atelierpoz/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens a client and pings it so misconfiguration fails at startup
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}
