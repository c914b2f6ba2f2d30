package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/semaphore"
)

// LeaseLock is the named cross-process exclusive lock keyed
// `table-lock:{table_id}`, realized in-process as a weight-1 semaphore with
// a finite lease: if the holder never releases (a crashed engine loop), the
// lease timer force-releases it so no other node can deadlock behind it.
//
// A single-process deployment only ever has one engine loop per table, so
// the semaphore never contends with itself; the lease exists for the
// distributed case this type is designed to generalize to.
type LeaseLock struct {
	sem   *semaphore.Weighted
	lease time.Duration
	clock quartz.Clock
}

// NewLeaseLock returns a lock with the given lease duration. A nil clock
// uses the real wall clock; tests substitute a quartz.Mock to assert lease
// expiry without sleeping.
func NewLeaseLock(lease time.Duration, clock quartz.Clock) *LeaseLock {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &LeaseLock{
		sem:   semaphore.NewWeighted(1),
		lease: lease,
		clock: clock,
	}
}

// Acquire blocks until the lock is held or ctx is done. The returned
// release func is idempotent; call it when the critical section completes.
// If the lease expires first, the lock is force-released and a subsequent
// call to release is a no-op.
func (l *LeaseLock) Acquire(ctx context.Context) (release func(), err error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	var once sync.Once
	releaseSem := func() { l.sem.Release(1) }
	timer := l.clock.AfterFunc(l.lease, releaseSem)

	return func() {
		once.Do(func() {
			if timer.Stop() {
				releaseSem()
			}
		})
	}, nil
}
