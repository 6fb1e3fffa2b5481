//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisJobLock(t *testing.T) {
	client := startRedis(t)
	lock := NewRedisJobLockWithClient(client)
	ctx := context.Background()

	token, ok, err := lock.TryLock(ctx, "bury:job:mora", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.TryLock(ctx, "bury:job:mora", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Unlock(ctx, "bury:job:mora", "stale-token"))
	exists, err := client.Exists(ctx, "bury:job:mora").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "stale token must not release the lock")

	require.NoError(t, lock.Unlock(ctx, "bury:job:mora", token))
	exists, err = client.Exists(ctx, "bury:job:mora").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestRedisJobLock_Expires(t *testing.T) {
	client := startRedis(t)
	lock := NewRedisJobLockWithClient(client)
	ctx := context.Background()

	_, ok, err := lock.TryLock(ctx, "bury:job:short", 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok, err := lock.TryLock(ctx, "bury:job:short", time.Minute)
		return err == nil && ok
	}, 5*time.Second, 100*time.Millisecond)
}
