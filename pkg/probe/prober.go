package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
)

// Prober implements the device status probes.
type Prober struct {
	companion ports.CompanionQuerier
	display   ports.DisplayConnector
	clock     ports.Clock
	logger    *slog.Logger
	policy    RetryPolicy
	hooks     domain.LifecycleHooks
}

// Option configures the prober.
type Option func(*Prober)

// WithClock replaces the wall clock.
func WithClock(c ports.Clock) Option {
	return func(p *Prober) {
		p.clock = c
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(p *Prober) {
		p.policy = policy
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Prober) {
		p.hooks = hooks
	}
}

// New creates a Prober.
func New(companion ports.CompanionQuerier, display ports.DisplayConnector, opts ...Option) *Prober {
	p := &Prober{
		companion: companion,
		display:   display,
		clock:     ports.SystemClock{},
		policy:    DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("component", "probe")
	return p
}

// CompanionPower reports whether the companion device is on.
// It retries until the helper answers with a recognized value.
func (p *Prober) CompanionPower(ctx context.Context) (bool, error) {
	state := domain.CompanionUnknown
	err := p.retry(ctx, domain.ProbeCompanion,
		func(ctx context.Context, attempt int) bool {
			raw, err := p.companion.PowerState(ctx)
			switch {
			case errors.Is(err, domain.ErrHelperNotFound):
				p.logger.Error("companion helper not found, ensure it is installed and in PATH", "err", err)
			case err != nil:
				p.logger.Warn("companion power query failed", "attempt", attempt, "err", err)
			}
			state = domain.ParseCompanionPower(raw)
			p.emit(ctx, domain.ProbeCompanion, attempt, string(state), err)
			return state != domain.CompanionUnknown
		},
		func(attempts int) {
			p.logger.Warn("companion state unrecognized, retrying", "attempts", attempts)
		},
	)
	return state == domain.CompanionOn, err
}

// DisplayPower makes a single attempt at reading the display's power state.
// Any failure is reported as DisplayPowerError.
func (p *Prober) DisplayPower(ctx context.Context) domain.DisplayPower {
	power := domain.DisplayPowerError
	info, err := p.deviceInfo(ctx)
	if err != nil {
		p.logger.Warn("error checking display power status", "err", err)
	} else {
		power = domain.ParseDisplayPower(info.PowerState)
		if power == domain.DisplayPowerError {
			p.logger.Warn("unrecognized display power state", "value", info.PowerState)
		}
	}
	p.emit(ctx, domain.ProbeDisplayPower, 1, string(power), err)
	return power
}

// IsStandby reports whether the display confirmed it is in standby.
// An error is never standby.
func (p *Prober) IsStandby(ctx context.Context) bool {
	return p.DisplayPower(ctx) == domain.DisplayPowerStandby
}

// ArtMode reports whether the display is in art mode.
// It waits ArtSettleDelay, then retries until the display answers "on" or "off".
// Every retry notice carries the display power state for context.
func (p *Prober) ArtMode(ctx context.Context) (bool, error) {
	if err := p.clock.Sleep(ctx, p.policy.ArtSettleDelay); err != nil {
		return false, err
	}
	mode := domain.ArtModeUnknown
	err := p.retry(ctx, domain.ProbeArtMode,
		func(ctx context.Context, attempt int) bool {
			raw, err := p.artModeStatus(ctx)
			if err != nil {
				p.logger.Warn("error checking art mode status", "attempt", attempt, "err", err)
			}
			mode = domain.ParseArtMode(raw)
			p.emit(ctx, domain.ProbeArtMode, attempt, string(mode), err)
			return mode != domain.ArtModeUnknown
		},
		func(attempts int) {
			p.logger.Warn("art mode status unrecognized, retrying",
				"attempts", attempts,
				"display_power", p.DisplayPower(ctx),
			)
		},
	)
	return mode == domain.ArtModeOn, err
}

// retry runs attempt until it resolves. There is no pause before the first attempt and a
// Backoff pause before every other one. notice is called before the third and later
// attempts with the number of attempts made so far.
func (p *Prober) retry(ctx context.Context, probe string, attempt func(context.Context, int) bool, notice func(int)) error {
	for n := 1; ; n++ {
		if p.policy.MaxAttempts > 0 && n > p.policy.MaxAttempts {
			return fmt.Errorf("%s: %w after %d attempts", probe, domain.ErrRetriesExhausted, n-1)
		}
		if n > 1 {
			if n > 2 {
				notice(n - 1)
			}
			if err := p.clock.Sleep(ctx, p.policy.Backoff); err != nil {
				return err
			}
		}
		if attempt(ctx, n) {
			return nil
		}
	}
}

func (p *Prober) deviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	sess, err := p.display.Connect(ctx, ports.SessionAuthenticated)
	if err != nil {
		return domain.DeviceInfo{}, err
	}
	defer sess.Close()
	return sess.DeviceInfo(ctx)
}

func (p *Prober) artModeStatus(ctx context.Context) (string, error) {
	sess, err := p.display.Connect(ctx, ports.SessionAnonymous)
	if err != nil {
		return "", err
	}
	defer sess.Close()
	return sess.ArtModeStatus(ctx)
}

func (p *Prober) emit(ctx context.Context, probe string, attempt int, value string, err error) {
	p.hooks.EmitProbe(ctx, &domain.ProbeEvent{
		EventBase: domain.EventBase{Timestamp: p.clock.Now()},
		Probe:     probe,
		Attempt:   attempt,
		Value:     value,
		Err:       err,
	})
}
