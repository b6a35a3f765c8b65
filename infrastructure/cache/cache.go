package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"douyin-manager/infrastructure/logger"
)

// NewCache connects to Redis and verifies the connection. A nil client is
// returned on failure so callers can degrade to uncached operation.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis unavailable, caching disabled")
		return nil, err
	}
	return client, nil
}
