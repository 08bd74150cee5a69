package controller

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
)

// Probes are the device observations a tick consumes.
type Probes interface {
	CompanionPower(ctx context.Context) (bool, error)
	IsStandby(ctx context.Context) bool
	ArtMode(ctx context.Context) (bool, error)
}

// Actuators are the commands a tick can issue.
type Actuators interface {
	TogglePower(ctx context.Context) error
	EnableArtMode(ctx context.Context) error
}

// Intervals paces the loop.
type Intervals struct {
	// Idle is slept after every steady-state tick.
	Idle time.Duration
	// Settle is waited between the restore commands and the art mode re-check.
	Settle time.Duration
}

// DefaultIntervals returns one second idle pacing and a half second settle delay.
func DefaultIntervals() Intervals {
	return Intervals{Idle: time.Second, Settle: 500 * time.Millisecond}
}

// Controller runs the reconciliation state machine.
type Controller struct {
	probes    Probes
	actuators Actuators
	clock     ports.Clock
	logger    *slog.Logger
	intervals Intervals
	hooks     domain.LifecycleHooks
}

// Option configures the controller.
type Option func(*Controller)

// WithClock replaces the wall clock.
func WithClock(c ports.Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ctrl *Controller) {
		ctrl.logger = logger
	}
}

// WithIntervals overrides DefaultIntervals.
func WithIntervals(i Intervals) Option {
	return func(ctrl *Controller) {
		ctrl.intervals = i
	}
}

// WithLifecycleHooks registers observability hooks. Only OnTick is used here.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(ctrl *Controller) {
		ctrl.hooks = hooks
	}
}

// New creates a Controller.
func New(probes Probes, actuators Actuators, opts ...Option) *Controller {
	c := &Controller{
		probes:    probes,
		actuators: actuators,
		clock:     ports.SystemClock{},
		intervals: DefaultIntervals(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("component", "controller")
	return c
}

// Run ticks back-to-back until ctx is done and returns the last state with ctx's error.
// A tick aborted by a probe giving up is logged and the loop carries on.
func (c *Controller) Run(ctx context.Context, state domain.ControllerState) (domain.ControllerState, error) {
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		next, _, err := c.Tick(ctx, state)
		state = next
		if err != nil {
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			c.logger.Warn("tick aborted, re-evaluating", "err", err)
		}
	}
}

// Tick runs one full evaluation. It returns an error only when ctx is done or a probe
// gave up; the returned state is valid in both cases.
func (c *Controller) Tick(ctx context.Context, state domain.ControllerState) (domain.ControllerState, domain.TickReport, error) {
	report := domain.TickReport{
		Branch:    domain.BranchIdle,
		StartedAt: c.clock.Now(),
	}
	next, err := c.tick(ctx, state, &report)
	report.State = next
	report.Duration = c.clock.Now().Sub(report.StartedAt)
	if err == nil {
		c.hooks.EmitTick(ctx, &domain.TickEvent{
			EventBase: domain.EventBase{Timestamp: report.StartedAt},
			Report:    report,
		})
	}
	return next, report, err
}

func (c *Controller) tick(ctx context.Context, st domain.ControllerState, r *domain.TickReport) (domain.ControllerState, error) {
	companionOn, err := c.probes.CompanionPower(ctx)
	if err != nil {
		return st, err
	}
	if companionOn && !c.probes.IsStandby(ctx) {
		r.Branch = domain.BranchEngaged
		if !st.CompanionWasOn {
			c.logger.Info("tv turned on")
		}
		st.CompanionWasOn = true
		return st, c.clock.Sleep(ctx, c.intervals.Idle)
	}

	// Probe again instead of trusting the first answer; the companion may have changed.
	companionOn, err = c.probes.CompanionPower(ctx)
	if err != nil {
		return st, err
	}
	if companionOn {
		// Display in standby, or the companion came up between probes.
		return st, nil
	}

	artOn, err := c.probes.ArtMode(ctx)
	if err != nil {
		return st, err
	}
	if artOn {
		r.Branch = domain.BranchAmbient
		return st, c.clock.Sleep(ctx, c.intervals.Idle)
	}

	if st.CompanionWasOn {
		r.Branch = domain.BranchRestore
		c.logger.Info("tv off")
		st.CompanionWasOn = false
		return st, c.restore(ctx, r)
	}

	companionOn, err = c.probes.CompanionPower(ctx)
	if err != nil {
		return st, err
	}
	if companionOn && c.probes.IsStandby(ctx) {
		r.Branch = domain.BranchNudge
		c.logger.Info("tv on, but frame off, trying to turn on frame")
		c.act(ctx, r, domain.ActionTogglePower)
		return st, nil
	}

	r.Branch = domain.BranchSleeping
	if !st.DisplayHasBeenSleeping {
		c.logger.Info("tv appears to be sleeping")
	}
	st.DisplayHasBeenSleeping = true
	return st, c.clock.Sleep(ctx, c.intervals.Idle)
}

// restore wakes the display and puts it into art mode. Art mode is requested without
// waiting for the toggle to take effect; a second toggle is the only correction.
func (c *Controller) restore(ctx context.Context, r *domain.TickReport) error {
	c.logger.Info("turning frame back on")
	c.act(ctx, r, domain.ActionTogglePower)
	c.logger.Info("enabling art mode")
	c.act(ctx, r, domain.ActionEnableArtMode)

	if err := c.clock.Sleep(ctx, c.intervals.Settle); err != nil {
		return err
	}
	artOn, err := c.probes.ArtMode(ctx)
	if err != nil {
		return err
	}
	if !artOn {
		c.logger.Info("art mode still off, toggling power again")
		c.act(ctx, r, domain.ActionTogglePower)
	}
	return nil
}

func (c *Controller) act(ctx context.Context, r *domain.TickReport, action domain.Action) {
	var err error
	switch action {
	case domain.ActionTogglePower:
		err = c.actuators.TogglePower(ctx)
	case domain.ActionEnableArtMode:
		err = c.actuators.EnableArtMode(ctx)
	}
	r.Actions = append(r.Actions, domain.NewActionRecord(action, err))
}
