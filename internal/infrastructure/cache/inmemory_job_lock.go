package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/scheduler"
	"github.com/google/uuid"
)

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryJobLock implements scheduler.Locker inside a single process.
// Locks are not shared across instances.
type InMemoryJobLock struct {
	mu    sync.Mutex
	locks map[string]lockEntry
	now   func() time.Time
}

// NewInMemoryJobLock creates a new in-memory job lock
func NewInMemoryJobLock() *InMemoryJobLock {
	return &InMemoryJobLock{
		locks: make(map[string]lockEntry),
		now:   time.Now,
	}
}

// TryLock acquires key unless a live lock already holds it
func (l *InMemoryJobLock) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, exists := l.locks[key]; exists && now.Before(e.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.locks[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

// Unlock releases key if token still owns it
func (l *InMemoryJobLock) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.locks[key]; exists && e.token == token {
		delete(l.locks, key)
	}
	return nil
}

// Close is a no-op
func (l *InMemoryJobLock) Close() error {
	return nil
}

// Size returns the number of held locks, expired ones included
func (l *InMemoryJobLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

var _ scheduler.Locker = (*InMemoryJobLock)(nil)
