package cache

import (
	"testing"

	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestJobLockFactory_RedisDisabled(t *testing.T) {
	f := NewJobLockFactory(config.RedisConfig{Enabled: false})

	lock, err := f.CreateLock()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryJobLock{}, lock)
}

func TestJobLockFactory_FallbackWhenUnreachable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	f := NewJobLockFactory(cfg, WithLogger(zap.New(core)))
	lock, err := f.CreateLock()
	require.NoError(t, err)
	defer lock.Close()

	assert.IsType(t, &InMemoryJobLock{}, lock)
	assert.Equal(t, 1, logs.Len())
}

func TestJobLockFactory_NoFallback(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	f := NewJobLockFactory(cfg, WithInMemoryFallback(false))
	lock, err := f.CreateLock()
	assert.Error(t, err)
	assert.Nil(t, lock)
}
