// Package actuator issues corrective commands to the display.
//
// Commands are fire-and-forget: each opens an authenticated session, sends a single
// request, logs the outcome and returns it. Nothing is retried here; the controller
// re-observes the devices on its next tick.
package actuator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
)

// Actuator sends commands to the display.
type Actuator struct {
	display ports.DisplayConnector
	clock   ports.Clock
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// Option configures the actuator.
type Option func(*Actuator)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Actuator) {
		a.logger = logger
	}
}

// WithClock replaces the wall clock used to time commands.
func WithClock(c ports.Clock) Option {
	return func(a *Actuator) {
		a.clock = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Actuator) {
		a.hooks = hooks
	}
}

// New creates an Actuator.
func New(display ports.DisplayConnector, opts ...Option) *Actuator {
	a := &Actuator{display: display, clock: ports.SystemClock{}}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.logger = a.logger.With("component", "actuator")
	return a
}

// TogglePower presses the display's power key once.
func (a *Actuator) TogglePower(ctx context.Context) error {
	return a.do(ctx, domain.ActionTogglePower, func(s ports.DisplaySession) error {
		return s.TogglePower(ctx)
	})
}

// EnableArtMode asks the display to switch art mode on.
func (a *Actuator) EnableArtMode(ctx context.Context) error {
	return a.do(ctx, domain.ActionEnableArtMode, func(s ports.DisplaySession) error {
		return s.SetArtMode(ctx, string(domain.ArtModeOn))
	})
}

func (a *Actuator) do(ctx context.Context, action domain.Action, send func(ports.DisplaySession) error) error {
	start := a.clock.Now()
	err := a.send(ctx, send)
	if err != nil {
		a.logger.Error("display command failed", "action", action, "err", err)
	} else {
		a.logger.Info("display command sent", "action", action)
	}
	a.hooks.EmitAction(ctx, &domain.ActionEvent{
		EventBase: domain.EventBase{Timestamp: start},
		Action:    action,
		Duration:  a.clock.Now().Sub(start),
		Err:       err,
	})
	return err
}

func (a *Actuator) send(ctx context.Context, send func(ports.DisplaySession) error) error {
	sess, err := a.display.Connect(ctx, ports.SessionAuthenticated)
	if err != nil {
		return fmt.Errorf("open display session: %w", err)
	}
	defer sess.Close()
	return send(sess)
}
