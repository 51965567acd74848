package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle limits failed-login style probing per key (email or IP)
// using a Redis counter with a rolling window. It fails open when Redis is
// unavailable so an outage never locks everyone out.
type LoginThrottle struct {
	client *redis.Client
	logger *slog.Logger
	limit  int64
	window time.Duration
}

// NewLoginThrottle constructs a throttle allowing limit attempts per window.
func NewLoginThrottle(client *redis.Client, logger *slog.Logger, limit int64, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, logger: logger, limit: limit, window: window}
}

// Allow records an attempt for key and reports whether it is still within
// the limit.
func (t *LoginThrottle) Allow(ctx context.Context, key string) bool {
	if t.client == nil {
		return true
	}
	redisKey := "login_attempts:" + key
	count, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("login throttle unavailable", slog.Any("error", err))
		}
		return true
	}
	if count == 1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil && t.logger != nil {
			t.logger.Warn("login throttle expire", slog.Any("error", err))
		}
	}
	return count <= t.limit
}
