package ws

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// RateLimiter throttles inbound frames per connection. Checked once per
// frame in the read loop, ahead of signaling.Decode, so an abusive socket
// never reaches the session state machine at all.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// RedisRateLimiter is a fixed-window limiter whose counters live in
// Redis, so every pod sees the same count for a given key. The read loop
// keys it by socket id, so a reconnect gets a new socket id and a fresh
// budget.
type RedisRateLimiter struct {
	Pool   *redis.Pool
	Limit  int
	Window time.Duration
	Prefix string
	Logger *zap.Logger
}

// NewRedisRateLimiter builds a limiter with a per-key inbound budget of
// 20 frames per 10-second window (the read loop uses one key per socket).
func NewRedisRateLimiter(pool *redis.Pool, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		Pool:   pool,
		Limit:  20,
		Window: 10 * time.Second,
		Prefix: "ws:rl",
		Logger: logger.With(zap.String("component", "transport.ws.ratelimit")),
	}
}

// Allow fails open on Redis errors: a socket never gets wedged shut
// because the rate-limit store is briefly unreachable.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	conn := r.Pool.Get()
	defer conn.Close()

	redisKey := r.Prefix + ":" + key
	count, err := redis.Int(conn.Do("INCR", redisKey))
	if err != nil {
		r.Logger.Warn("rate limit INCR failed, failing open", zap.String("key", key), zap.Error(err))
		return true
	}

	if count == 1 {
		if _, err := conn.Do("EXPIRE", redisKey, int(r.Window.Seconds())); err != nil {
			r.Logger.Warn("rate limit EXPIRE failed", zap.String("key", key), zap.Error(err))
		}
	}

	if count > r.Limit {
		r.Logger.Debug("socket rate limited", zap.String("key", key), zap.Int("count", count))
		return false
	}
	return true
}
