package ports

import (
	"context"
	"time"
)

// Lease is a held distributed lock.
type Lease interface {
	// Refresh extends the lease by ttl. Returns domain.ErrLockHeld if the lease was lost.
	Refresh(ctx context.Context, ttl time.Duration) error
	// Release gives the lease up. Releasing a lost lease is not an error.
	Release(ctx context.Context) error
}

// DistributedLocker defines the interface for distributed concurrency control.
// It keeps two controller instances from driving the same display at once.
type DistributedLocker interface {
	// Lock attempts to acquire a lock for the given key (e.g., the display host).
	// It blocks until the lock is acquired or the context is canceled.
	Lock(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}
