package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrLockNotAcquired means the advisory lock was not obtained within the
// bounded wait. Callers surface it as a retryable failure instead of
// queueing behind the holder indefinitely.
var ErrLockNotAcquired = errors.New("advisory lock not acquired within timeout")

// AdvisoryLocker serializes decisions about a logical resource across
// concurrent transactions using Postgres session advisory locks. Row locks
// alone cannot do this: two transactions can both pass a conflict query
// against two different pending rows that conflict with each other.
type AdvisoryLocker struct {
	db *gorm.DB
}

func NewAdvisoryLocker(db *gorm.DB) *AdvisoryLocker { return &AdvisoryLocker{db: db} }

// LockKey folds a resource name into the int64 space advisory locks live in.
func LockKey(parts ...string) int64 {
	h := fnv.New64a()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte(p))
	}
	return int64(h.Sum64())
}

// WithLock pins one connection, acquires the named lock with a bounded
// wait and runs fn while holding it. The lock is released on every exit
// path; a leaked lock would deadlock all future work on the key.
func (l *AdvisoryLocker) WithLock(ctx context.Context, key int64, timeout time.Duration, fn func() error) error {
	return l.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		ms := timeout.Milliseconds()
		if ms <= 0 {
			ms = 1
		}
		if err := conn.Exec(fmt.Sprintf("SET lock_timeout = %d", ms)).Error; err != nil {
			return err
		}
		defer conn.Exec("RESET lock_timeout")

		if err := conn.Exec("SELECT pg_advisory_lock(?)", key).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
				return ErrLockNotAcquired
			}
			return err
		}
		defer conn.Exec("SELECT pg_advisory_unlock(?)", key)

		return fn()
	})
}
