package server

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseLock_AcquireRelease(t *testing.T) {
	clock := quartz.NewMock(t)
	lock := NewLeaseLock(5*time.Second, clock)

	ctx := context.Background()
	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r2, err := lock.Acquire(ctx)
		require.NoError(t, err)
		close(acquired)
		r2()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should not succeed while the first holder is still in its critical section")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire should succeed once the first is released")
	}
}

func TestLeaseLock_ExpiryForceReleases(t *testing.T) {
	clock := quartz.NewMock(t)
	lock := NewLeaseLock(5*time.Second, clock)

	ctx := context.Background()
	_, err := lock.Acquire(ctx)
	require.NoError(t, err)
	// The holder never calls release — simulating a crashed engine loop.

	acquired := make(chan struct{})
	go func() {
		release, err := lock.Acquire(ctx)
		require.NoError(t, err)
		close(acquired)
		release()
	}()

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(5 * time.Second).MustWait(waitCtx)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lease expiry should force-release the lock for the next acquirer")
	}
}

func TestLeaseLock_ReleaseIsIdempotent(t *testing.T) {
	clock := quartz.NewMock(t)
	lock := NewLeaseLock(5*time.Second, clock)

	release, err := lock.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		release()
		release()
	})
}
