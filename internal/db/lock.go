package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// syncLockTTL bounds how long a crashed sync can hold the lock before it
// expires on its own.
const syncLockTTL = 15 * time.Minute

// SyncLock is a Redis SET-NX advisory lock that serializes sync pipeline
// invocations. Concurrent triggers would otherwise race on the
// dedup-then-insert step; the loser here is told to back off instead.
type SyncLock struct {
	rdb *redis.Client
	key string
}

// NewSyncLock returns a lock scoped to key.
func NewSyncLock(rdb *redis.Client, key string) *SyncLock {
	return &SyncLock{rdb: rdb, key: key}
}

// Acquire attempts to take the lock. Returns false, without error, when
// another sync currently holds it.
func (l *SyncLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, "locked", syncLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock. Safe to call when the lock already expired.
func (l *SyncLock) Release(ctx context.Context) error {
	if err := l.rdb.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("release sync lock: %w", err)
	}
	return nil
}
