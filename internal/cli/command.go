package cli

import (
	"context"
	"io"
	"time"

	"github.com/aretw0/framesync"
)

// SendOptions controls a manual display command.
type SendOptions struct {
	RunOptions
	Timeout time.Duration
}

// TogglePower sends one power toggle to the display.
func TogglePower(opts SendOptions, stderr io.Writer) error {
	return send(opts, stderr, "power toggled", (*framesync.Daemon).TogglePower)
}

// EnableArtMode asks the display to switch art mode on.
func EnableArtMode(opts SendOptions, stderr io.Writer) error {
	return send(opts, stderr, "art mode requested", (*framesync.Daemon).EnableArtMode)
}

func send(opts SendOptions, stderr io.Writer, done string, cmd func(*framesync.Daemon, context.Context) error) error {
	d, _, err := newDaemon(opts.RunOptions, stderr)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := cmd(d, ctx); err != nil {
		return err
	}
	printSystemMessage("%s", done)
	return nil
}
