package session

import (
	"context"
	"time"

	"github.com/pecadorcelestial/panda-proxy/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter throttles login attempts per identity. It is a brake
// against credential stuffing, not an authorization boundary: callers
// fail open when the limiter itself is broken.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

const loginAttemptPrefix = "login:attempts:"

type redisLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter builds a fixed-window limiter over Redis.
func NewRedisLimiter(rdb *redis.Client, max int, window time.Duration) AttemptLimiter {
	return &redisLimiter{rdb: rdb, max: max, window: window}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return utils.AllowInWindow(ctx, l.rdb, loginAttemptPrefix+key, l.max, l.window)
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return utils.ResetWindow(ctx, l.rdb, loginAttemptPrefix+key)
}
