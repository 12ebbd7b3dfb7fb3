package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter gates the activity polling endpoint per session.
type Limiter interface {
	// Allow reports whether one more request for key fits the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

// NopLimiter admits everything; used when no Redis is configured and in tests.
type NopLimiter struct{}

func (NopLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

// Connect accepts either a redis:// URL or a bare host:port address.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisLimiter is a fixed-window counter: INCR per key, EXPIRE on the first
// hit of each window. Redis failures fail open so the limiter can never take
// the accrual path down.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: perMinute, window: time.Minute}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:activity:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(l.limit), nil
}

var _ Limiter = (*RedisLimiter)(nil)
var _ Limiter = NopLimiter{}
