package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLockerContract runs a suite of tests to verify that a DistributedLocker implementation
// adheres to the defined interface contract. newLocker must return lockers that share state.
func RunLockerContract(t *testing.T, newLocker func() DistributedLocker) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000")

	t.Run("Lock and Release", func(t *testing.T) {
		lease, err := newLocker().Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, lease)
		require.NoError(t, lease.Release(ctx))

		// Key is free again.
		again, err := newLocker().Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, again.Release(ctx))
	})

	t.Run("Contention Blocks Until Context Done", func(t *testing.T) {
		held, err := newLocker().Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer held.Release(ctx)

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = newLocker().Lock(waitCtx, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Refresh Held Lease", func(t *testing.T) {
		lease, err := newLocker().Lock(ctx, key, time.Second)
		require.NoError(t, err)
		defer lease.Release(ctx)
		assert.NoError(t, lease.Refresh(ctx, 5*time.Second))
	})

	t.Run("Refresh After Release Fails", func(t *testing.T) {
		lease, err := newLocker().Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lease.Release(ctx))
		assert.ErrorIs(t, lease.Refresh(ctx, time.Second), domain.ErrLockHeld)
		assert.NoError(t, lease.Release(ctx), "double release is harmless")
	})
}
