package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rentalhub/internal/repository"
)

func TestLockKey_Stable(t *testing.T) {
	a := repository.LockKey("booking-approval", "2026-10-12", "loc-1")
	b := repository.LockKey("booking-approval", "2026-10-12", "loc-1")
	if a != b {
		t.Fatalf("same parts must produce the same key: %d != %d", a, b)
	}
}

func TestLockKey_Distinguishes(t *testing.T) {
	base := repository.LockKey("booking-approval", "2026-10-12", "loc-1")
	cases := map[string]int64{
		"different date":     repository.LockKey("booking-approval", "2026-10-13", "loc-1"),
		"different location": repository.LockKey("booking-approval", "2026-10-12", "loc-2"),
		"different prefix":   repository.LockKey("reservation", "2026-10-12", "loc-1"),
		// The separator prevents part-boundary collisions.
		"shifted boundary": repository.LockKey("booking-approval2026-10-12", "", "loc-1"),
	}
	for name, key := range cases {
		if key == base {
			t.Fatalf("%s produced a colliding key", name)
		}
	}
}

func TestAdvisoryLocker_MutualExclusion(t *testing.T) {
	db := setupDB(t)
	locker := repository.NewAdvisoryLocker(db)
	ctx := context.Background()
	key := repository.LockKey("test", "exclusion")

	var mu sync.Mutex
	var inside int
	var maxInside int

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(ctx, key, 5*time.Second, func() error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(50 * time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("WithLock: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected strict serialization, saw %d holders at once", maxInside)
	}
}

func TestAdvisoryLocker_Timeout(t *testing.T) {
	db := setupDB(t)
	locker := repository.NewAdvisoryLocker(db)
	ctx := context.Background()
	key := repository.LockKey("test", "timeout")

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- locker.WithLock(ctx, key, 5*time.Second, func() error {
			close(acquired)
			<-release
			return nil
		})
	}()

	<-acquired
	err := locker.WithLock(ctx, key, 200*time.Millisecond, func() error {
		t.Error("second caller must not enter while the lock is held")
		return nil
	})
	if !errors.Is(err, repository.ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder WithLock: %v", err)
	}

	// The key is usable again after release.
	if err := locker.WithLock(ctx, key, time.Second, func() error { return nil }); err != nil {
		t.Fatalf("relock after release: %v", err)
	}
}

func TestAdvisoryLocker_ReleasedOnError(t *testing.T) {
	db := setupDB(t)
	locker := repository.NewAdvisoryLocker(db)
	ctx := context.Background()
	key := repository.LockKey("test", "release-on-error")

	boom := errors.New("boom")
	if err := locker.WithLock(ctx, key, time.Second, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error passed through, got %v", err)
	}

	// A failed fn must not leak the lock.
	if err := locker.WithLock(ctx, key, time.Second, func() error { return nil }); err != nil {
		t.Fatalf("lock leaked after fn error: %v", err)
	}
}
