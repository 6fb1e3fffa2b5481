package cache

import (
	"fmt"

	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/config"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// JobLock is a scheduler.Locker that owns a connection
type JobLock interface {
	scheduler.Locker
	Close() error
}

// JobLockFactory creates job locks based on configuration
type JobLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// JobLockFactoryOption is a functional option for configuring the factory
type JobLockFactoryOption func(*JobLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to an in-memory lock.
// Default is true.
func WithInMemoryFallback(allow bool) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewJobLockFactory creates a new factory
func NewJobLockFactory(cfg config.RedisConfig, opts ...JobLockFactoryOption) *JobLockFactory {
	f := &JobLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLock creates a Redis-backed job lock
func (f *JobLockFactory) CreateRedisLock() (JobLock, error) {
	lock, err := NewRedisJobLock(f.redisConfig.Addr(), f.redisConfig.Password, f.redisConfig.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis job lock: %w", err)
	}
	return lock, nil
}

// CreateLock returns an in-memory lock when Redis is disabled. Otherwise it
// tries Redis and, if allowed, falls back to in-memory when Redis is unreachable.
func (f *JobLockFactory) CreateLock() (JobLock, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory job lock")
		return NewInMemoryJobLock(), nil
	}

	lock, err := f.CreateRedisLock()
	if err == nil {
		f.logger.Info("using Redis job lock", zap.String("addr", f.redisConfig.Addr()))
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for job locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory job lock. "+
		"Jobs may run concurrently when more than one worker is deployed.",
		zap.Error(err),
	)
	return NewInMemoryJobLock(), nil
}
