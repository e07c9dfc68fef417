package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/config"
)

// ProbeCacheFactory creates connectivity probe caches based on configuration.
type ProbeCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ProbeCacheFactoryOption is a functional option for configuring the factory.
type ProbeCacheFactoryOption func(*ProbeCacheFactory)

// WithLogger sets the logger for the factory.
func WithLogger(logger *zap.Logger) ProbeCacheFactoryOption {
	return func(f *ProbeCacheFactory) {
		f.logger = logger
	}
}

// WithTTL sets the probe result lifetime.
func WithTTL(ttl time.Duration) ProbeCacheFactoryOption {
	return func(f *ProbeCacheFactory) {
		f.ttl = ttl
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ProbeCacheFactoryOption {
	return func(f *ProbeCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProbeCacheFactory creates a new factory.
func NewProbeCacheFactory(cfg config.RedisConfig, opts ...ProbeCacheFactoryOption) *ProbeCacheFactory {
	f := &ProbeCacheFactory{
		redisConfig:           cfg,
		ttl:                   DefaultProbeTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed probe cache.
func (f *ProbeCacheFactory) CreateRedisCache() (fulfillment.ConnectivityProbeCache, error) {
	cache, err := NewRedisProbeCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis probe cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory probe cache.
func (f *ProbeCacheFactory) CreateInMemoryCache() fulfillment.ConnectivityProbeCache {
	return NewInMemoryProbeCache(f.ttl)
}

// CreateCache tries Redis first and falls back to an in-memory cache when
// Redis is unavailable and fallback is allowed.
func (f *ProbeCacheFactory) CreateCache() (fulfillment.ConnectivityProbeCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis probe cache",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port))
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory probe cache",
		zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
