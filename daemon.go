package framesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/framesync/internal/config"
	"github.com/aretw0/framesync/internal/logging"
	"github.com/aretw0/framesync/pkg/actuator"
	httpAdapter "github.com/aretw0/framesync/pkg/adapters/http"
	"github.com/aretw0/framesync/pkg/adapters/process"
	redisAdapter "github.com/aretw0/framesync/pkg/adapters/redis"
	"github.com/aretw0/framesync/pkg/adapters/samsung"
	"github.com/aretw0/framesync/pkg/controller"
	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/observability"
	"github.com/aretw0/framesync/pkg/ports"
	"github.com/aretw0/framesync/pkg/probe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ErrLeaseLost is the cancellation cause when the controller lease can no longer be refreshed.
var ErrLeaseLost = errors.New("controller lease lost")

// Daemon wires the probes, actuators and controller to real devices.
type Daemon struct {
	cfg    config.Config
	logger *slog.Logger
	clock  ports.Clock
	hooks  domain.LifecycleHooks

	companion ports.CompanionQuerier
	display   ports.DisplayConnector
	locker    ports.DistributedLocker

	registry *prometheus.Registry
	tracker  *observability.Tracker

	prober     *probe.Prober
	actuator   *actuator.Actuator
	controller *controller.Controller
}

// Option defines a functional option for configuring the Daemon.
type Option func(*Daemon)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Daemon) {
		d.logger = logger
	}
}

// WithClock replaces the wall clock. Used by tests.
func WithClock(c ports.Clock) Option {
	return func(d *Daemon) {
		d.clock = c
	}
}

// WithLifecycleHooks registers extra observability hooks, called after the built-in ones.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Daemon) {
		d.hooks = hooks
	}
}

// WithCompanion injects a companion querier, bypassing the helper process.
func WithCompanion(c ports.CompanionQuerier) Option {
	return func(d *Daemon) {
		d.companion = c
	}
}

// WithDisplay injects a display connector, bypassing the network adapter.
func WithDisplay(c ports.DisplayConnector) Option {
	return func(d *Daemon) {
		d.display = c
	}
}

// WithLocker injects a lease provider. Without one, a redis locker is built when
// lock.redis_url is configured, and no lease is taken otherwise.
func WithLocker(l ports.DistributedLocker) Option {
	return func(d *Daemon) {
		d.locker = l
	}
}

// New validates cfg and builds a Daemon.
func New(cfg config.Config, opts ...Option) (*Daemon, error) {
	d := &Daemon{cfg: cfg, clock: ports.SystemClock{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.NewNop()
	}

	// Injected devices make the connection settings irrelevant.
	if d.display != nil && cfg.Display.Host == "" {
		cfg.Display.Host = "injected"
	}
	if d.companion != nil && cfg.Companion.ID == "" {
		cfg.Companion.ID = "injected"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if d.display == nil {
		token, err := config.LoadToken(cfg.Display.TokenFile)
		if err != nil {
			return nil, err
		}
		sc := cfg.Display.Config
		sc.Token = token
		d.display = samsung.NewConnector(sc, samsung.WithLogger(d.logger))
	}
	if d.companion == nil {
		runner := process.NewRunnerFromConfig(cfg.Companion.Config)
		d.companion = process.NewQuerier(runner, cfg.Companion.ID)
	}
	if d.locker == nil && cfg.Lock.RedisURL != "" {
		locker, err := redisAdapter.NewFromURL(cfg.Lock.RedisURL, cfg.Lock.Prefix)
		if err != nil {
			return nil, fmt.Errorf("lock backend: %w", err)
		}
		d.locker = locker
	}
	if d.locker != nil && cfg.Lock.RefreshInterval() <= 0 {
		return nil, &config.ValidationError{Problems: []string{
			fmt.Sprintf("lock.ttl %s is too short to refresh a lease", cfg.Lock.TTL),
		}}
	}

	d.registry = prometheus.NewRegistry()
	d.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(d.registry)
	d.tracker = observability.NewTracker()
	hooks := metrics.Hooks().Merge(d.tracker.Hooks()).Merge(d.hooks)

	d.prober = probe.New(d.companion, d.display,
		probe.WithClock(d.clock),
		probe.WithLogger(d.logger),
		probe.WithLifecycleHooks(hooks),
		probe.WithRetryPolicy(probe.RetryPolicy{
			Backoff:        cfg.Loop.Backoff,
			MaxAttempts:    cfg.Loop.MaxAttempts,
			ArtSettleDelay: cfg.Loop.ArtSettle,
		}),
	)
	d.actuator = actuator.New(d.display,
		actuator.WithClock(d.clock),
		actuator.WithLogger(d.logger),
		actuator.WithLifecycleHooks(hooks),
	)
	d.controller = controller.New(d.prober, d.actuator,
		controller.WithClock(d.clock),
		controller.WithLogger(d.logger),
		controller.WithLifecycleHooks(hooks),
		controller.WithIntervals(controller.Intervals{Idle: cfg.Loop.Idle, Settle: cfg.Loop.Settle}),
	)
	d.cfg = cfg
	return d, nil
}

// Tracker exposes the last-tick tracker.
func (d *Daemon) Tracker() *observability.Tracker {
	return d.tracker
}

// Gatherer exposes the metrics registry.
func (d *Daemon) Gatherer() prometheus.Gatherer {
	return d.registry
}

// Run takes the lease if one is configured, starts the status server if an address is
// set, and runs the control loop until ctx is cancelled. A cancelled ctx is a clean
// shutdown and returns nil; losing the lease returns ErrLeaseLost.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if d.locker != nil {
		interval := d.cfg.Lock.RefreshInterval()
		if interval <= 0 {
			return fmt.Errorf("lease refresh interval %s must be positive", interval)
		}
		d.logger.Info("waiting for controller lease", "key", d.cfg.Lock.Key)
		lease, err := d.locker.Lock(ctx, d.cfg.Lock.Key, d.cfg.Lock.TTL)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("acquire controller lease: %w", err)
		}
		d.logger.Info("controller lease acquired", "ttl", d.cfg.Lock.TTL)
		defer func() {
			releaseCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			if err := lease.Release(releaseCtx); err != nil {
				d.logger.Warn("lease release failed", "error", err)
			}
		}()
		go d.keepLease(ctx, lease, interval, cancel)
	}

	serverDone := make(chan error, 1)
	if addr := d.cfg.Status.Addr; addr != "" {
		handler := httpAdapter.NewHandler(d.tracker, d.registry,
			httpAdapter.WithLogger(d.logger),
			httpAdapter.WithInfo(BuildInfo()),
		)
		go func() {
			serverDone <- httpAdapter.Serve(ctx, addr, handler, d.logger)
		}()
	} else {
		serverDone <- nil
	}

	d.logger.Info("starting art mode controller, monitoring companion status",
		"display", d.cfg.Display.Host, "companion", d.cfg.Companion.ID)
	_, err := d.controller.Run(ctx, domain.ControllerState{})
	cancel(nil)

	if serr := <-serverDone; serr != nil {
		d.logger.Error("status server failed", "error", serr)
	}
	if cause := context.Cause(ctx); errors.Is(cause, ErrLeaseLost) {
		return cause
	}
	if errors.Is(err, context.Canceled) {
		d.logger.Info("controller stopped")
		return nil
	}
	return err
}

func (d *Daemon) keepLease(ctx context.Context, lease ports.Lease, interval time.Duration, cancel context.CancelCauseFunc) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lease.Refresh(ctx, d.cfg.Lock.TTL); err != nil {
				if ctx.Err() != nil {
					return
				}
				d.logger.Error("controller lease lost, stopping", "error", err)
				cancel(fmt.Errorf("%w: %v", ErrLeaseLost, err))
				return
			}
		}
	}
}

// Snapshot is a single observation of both devices.
type Snapshot struct {
	CompanionOn  bool                `json:"companion_on"`
	DisplayPower domain.DisplayPower `json:"display_power"`
	ArtMode      bool                `json:"art_mode"`
}

// Check probes each device once, with the configured retry policy, and returns what it saw.
// Callers bound it with ctx.
func (d *Daemon) Check(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var errs []error

	on, err := d.prober.CompanionPower(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("companion: %w", err))
	}
	snap.CompanionOn = on

	snap.DisplayPower = d.prober.DisplayPower(ctx)

	art, err := d.prober.ArtMode(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("art mode: %w", err))
	}
	snap.ArtMode = art

	return snap, errors.Join(errs...)
}

// TogglePower sends a single power toggle to the display.
func (d *Daemon) TogglePower(ctx context.Context) error {
	return d.actuator.TogglePower(ctx)
}

// EnableArtMode asks the display to switch art mode on.
func (d *Daemon) EnableArtMode(ctx context.Context) error {
	return d.actuator.EnableArtMode(ctx)
}
