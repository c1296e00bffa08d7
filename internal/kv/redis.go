// Package kv owns the process-wide redis client. The client is created
// once at startup and injected into every consumer; it is safe for
// concurrent use by all in-flight requests.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/pkg/config"
)

const (
	connectTimeout = 2 * time.Second
	maxAttempts    = 5
)

// New connects to redis and verifies the connection with a ping,
// retrying with a short backoff the way the database bootstrap does.
func New(cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			logger.Info("Redis connection successful",
				zap.String("addr", client.Options().Addr),
				zap.Int("db", cfg.DB))
			return client, nil
		}

		waitDuration := time.Duration(attempts) * 200 * time.Millisecond
		logger.Warn("Redis ping failed, retrying...",
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("wait_duration", waitDuration),
			zap.Error(lastErr),
		)
		if attempts < maxAttempts {
			time.Sleep(waitDuration)
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("redis connection failed after %d attempts: %w", maxAttempts, lastErr)
}
