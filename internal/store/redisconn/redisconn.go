// Package redisconn builds the shared *redis.Pool used by both the
// signaling PresenceRegistry and the RedisBus, following the teacher's
// ds/redis pool settings.
package redisconn

import (
	"fmt"
	"os"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// Config holds Redis connection settings for a single pod.
type Config struct {
	Server   string
	Password string
}

// ConfigFromEnv reads REDIS_SERVER / REDIS_AUTH_PASSWORD, matching the
// teacher's ds/redis.ConfigDefault convention.
func ConfigFromEnv() *Config {
	return &Config{
		Server:   os.Getenv("REDIS_SERVER"),
		Password: os.Getenv("REDIS_AUTH_PASSWORD"),
	}
}

// NewPool builds a connection pool and verifies connectivity with a PING
// before returning it.
func NewPool(cfg *Config, logger *zap.Logger) (*redis.Pool, error) {
	logger = logger.With(zap.String("component", "store.redisconn"), zap.String("server", cfg.Server))

	pool := &redis.Pool{
		MaxIdle:   80,
		MaxActive: 12000,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.Server, redis.DialPassword(cfg.Password))
		},
	}

	conn := pool.Get()
	defer conn.Close()

	if _, err := redis.String(conn.Do("PING")); err != nil {
		logger.Error("redis connection failed", zap.Error(err))
		return nil, fmt.Errorf("redisconn: ping failed: %w", err)
	}

	logger.Info("redis connected")
	return pool, nil
}
