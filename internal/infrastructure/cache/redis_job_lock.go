package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisJobLock implements scheduler.Locker using Redis.
// It is suitable for deployments running more than one worker.
type RedisJobLock struct {
	client *redis.Client
}

// NewRedisJobLock connects to Redis and verifies the connection
func NewRedisJobLock(addr, password string, db int) (*RedisJobLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisJobLock{client: client}, nil
}

// NewRedisJobLockWithClient creates a lock with an existing Redis client
func NewRedisJobLockWithClient(client *redis.Client) *RedisJobLock {
	return &RedisJobLock{client: client}
}

// TryLock sets key to a fresh token if it does not exist yet.
// ok is false when another holder owns the key.
func (l *RedisJobLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !acquired {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock releases key if it is still held with token.
// A lock that expired and was taken by someone else is left alone.
func (l *RedisJobLock) Unlock(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisJobLock) Close() error {
	return l.client.Close()
}

var _ scheduler.Locker = (*RedisJobLock)(nil)
