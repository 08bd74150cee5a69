package ports

import (
	"context"

	"github.com/aretw0/framesync/pkg/domain"
)

// SessionMode selects which session configuration the display is opened with.
type SessionMode int

const (
	// SessionAuthenticated carries the pairing token. Used for commands and device info.
	SessionAuthenticated SessionMode = iota
	// SessionAnonymous carries no token. Used for art-mode status queries only.
	SessionAnonymous
)

func (m SessionMode) String() string {
	if m == SessionAnonymous {
		return "anonymous"
	}
	return "authenticated"
}

// DisplaySession is a single control session with the display.
// Sessions are not reused across probes or actuator calls.
type DisplaySession interface {
	// DeviceInfo fetches the display's device description.
	DeviceInfo(ctx context.Context) (domain.DeviceInfo, error)

	// ArtModeStatus returns the raw art-mode status ("on", "off", or anything else on error).
	ArtModeStatus(ctx context.Context) (string, error)

	// SetArtMode requests the given art-mode status ("on"/"off").
	SetArtMode(ctx context.Context, value string) error

	// TogglePower sends a single power key press.
	TogglePower(ctx context.Context) error

	// Close releases every connection the session opened.
	Close() error
}

// DisplayConnector opens display sessions.
type DisplayConnector interface {
	Connect(ctx context.Context, mode SessionMode) (DisplaySession, error)
}
