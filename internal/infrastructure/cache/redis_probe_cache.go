package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// RedisProbeCache implements ConnectivityProbeCache using Redis. This is
// suitable for multi-instance deployments where all instances should share
// one probe result instead of each pinging the warehouse.
type RedisProbeCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisProbeCache creates a Redis-backed probe cache and verifies the
// connection.
func NewRedisProbeCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisProbeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisProbeCacheWithClient(client, ttl, logger), nil
}

// NewRedisProbeCacheWithClient creates a probe cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisProbeCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProbeCache {
	if ttl <= 0 {
		ttl = DefaultProbeTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProbeCache{
		client: client,
		key:    "wms:connectivity",
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached probe result. Redis failures are treated as a cache
// miss so the caller probes the warehouse directly.
func (c *RedisProbeCache) Get(ctx context.Context) (bool, bool) {
	val, err := c.client.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return false, false
	}
	if err != nil {
		c.logger.Warn("probe cache read failed", zap.Error(err))
		return false, false
	}
	return val == "1", true
}

// Set caches a probe result. Redis failures are logged and swallowed; the
// probe result itself is more important than caching it.
func (c *RedisProbeCache) Set(ctx context.Context, reachable bool) {
	val := "0"
	if reachable {
		val = "1"
	}
	if err := c.client.Set(ctx, c.key, val, c.ttl).Err(); err != nil {
		c.logger.Warn("probe cache write failed", zap.Error(err))
	}
}

// Close closes the Redis client.
func (c *RedisProbeCache) Close() error {
	return c.client.Close()
}

// Ensure RedisProbeCache implements ConnectivityProbeCache
var _ fulfillment.ConnectivityProbeCache = (*RedisProbeCache)(nil)
