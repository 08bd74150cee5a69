package ports

import "context"

// CompanionQuerier queries the companion device's power state.
type CompanionQuerier interface {
	// PowerState returns the raw textual answer of the companion helper.
	// Returns domain.ErrHelperNotFound if the helper is not installed.
	PowerState(ctx context.Context) (string, error)
}
