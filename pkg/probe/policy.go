package probe

import "time"

// RetryPolicy bounds the blocking probes.
type RetryPolicy struct {
	// Backoff is the pause before every attempt after the first.
	Backoff time.Duration
	// MaxAttempts caps a single probe call. Zero means unlimited.
	MaxAttempts int
	// ArtSettleDelay is waited once before querying art mode.
	ArtSettleDelay time.Duration
}

// DefaultRetryPolicy returns a one second backoff with a very large attempt budget.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Backoff:        time.Second,
		MaxAttempts:    1_000_000,
		ArtSettleDelay: 500 * time.Millisecond,
	}
}
