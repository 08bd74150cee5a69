package framesync_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/framesync"
	"github.com/aretw0/framesync/internal/config"
	"github.com/aretw0/framesync/internal/testutils"
	"github.com/aretw0/framesync/pkg/adapters/memory"
	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopOn(branch domain.Branch, cancel context.CancelFunc) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTick: func(_ context.Context, e *domain.TickEvent) {
			if e.Report.Branch == branch {
				cancel()
			}
		},
	}
}

func TestDaemon_RunRestoresArtMode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	companion := testutils.NewFakeCompanion(
		testutils.Value(domain.CompanionStateOn),
		testutils.Value("PowerState.Off"),
	)
	display := testutils.NewFakeDisplay()
	logger, logs := testutils.NewLogger()

	d, err := framesync.New(config.Default(),
		framesync.WithCompanion(companion),
		framesync.WithDisplay(display),
		framesync.WithClock(testutils.NewFakeClock()),
		framesync.WithLogger(logger),
		framesync.WithLifecycleHooks(stopOn(domain.BranchRestore, cancel)),
	)
	require.NoError(t, err)

	require.NoError(t, d.Run(ctx))

	assert.Equal(t, []string{"toggle_power", "set_art_mode:on", "toggle_power"}, display.Commands())
	assert.Equal(t, 1, logs.Count("tv turned on"))
	assert.Equal(t, 1, logs.Count("tv off"))
	assert.Equal(t, 1, logs.Count("controller stopped"))

	status := d.Tracker().Status()
	assert.Equal(t, uint64(2), status.Ticks)
	require.NotNil(t, status.LastTick)
	assert.Equal(t, domain.BranchRestore, status.LastTick.Branch)

	mfs, err := d.Gatherer().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "framesync_ticks_total")
	assert.Contains(t, names, "framesync_actions_total")
}

func TestDaemon_RunHoldsLease(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	locker := memory.NewLocker()
	cfg := config.Default()
	cfg.Lock.TTL = time.Minute

	d, err := framesync.New(cfg,
		framesync.WithCompanion(testutils.NewFakeCompanion(testutils.Value(domain.CompanionStateOn))),
		framesync.WithDisplay(testutils.NewFakeDisplay()),
		framesync.WithClock(testutils.NewFakeClock()),
		framesync.WithLocker(locker),
		framesync.WithLifecycleHooks(domain.LifecycleHooks{
			OnTick: func(context.Context, *domain.TickEvent) {
				probeCtx, done := context.WithTimeout(context.Background(), 50*time.Millisecond)
				defer done()
				_, err := locker.Lock(probeCtx, cfg.Lock.Key, time.Second)
				assert.ErrorIs(t, err, context.DeadlineExceeded, "lease must be held while running")
				cancel()
			},
		}),
	)
	require.NoError(t, err)
	require.NoError(t, d.Run(ctx))

	lockCtx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	lease, err := locker.Lock(lockCtx, cfg.Lock.Key, time.Second)
	require.NoError(t, err, "lease must be released on shutdown")
	require.NoError(t, lease.Release(lockCtx))
}

type flakyLocker struct {
	refreshes atomic.Int32
}

type flakyLease struct{ l *flakyLocker }

func (l *flakyLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.Lease, error) {
	return flakyLease{l}, nil
}

func (ls flakyLease) Refresh(ctx context.Context, ttl time.Duration) error {
	if ls.l.refreshes.Add(1) > 1 {
		return domain.ErrLockHeld
	}
	return nil
}

func (ls flakyLease) Release(ctx context.Context) error { return nil }

func TestDaemon_RunStopsWhenLeaseLost(t *testing.T) {
	cfg := config.Default()
	cfg.Lock.TTL = 30 * time.Millisecond
	cfg.Loop.Idle = time.Millisecond

	d, err := framesync.New(cfg,
		framesync.WithCompanion(testutils.NewFakeCompanion(testutils.Value(domain.CompanionStateOn))),
		framesync.WithDisplay(testutils.NewFakeDisplay()),
		framesync.WithLocker(&flakyLocker{}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = d.Run(ctx)

	assert.ErrorIs(t, err, framesync.ErrLeaseLost)
	assert.ErrorContains(t, err, domain.ErrLockHeld.Error())
}

func TestDaemon_Check(t *testing.T) {
	display := testutils.NewFakeDisplay()
	display.SetPower(testutils.Value("standby"))
	display.SetArt(testutils.Value("on"))

	d, err := framesync.New(config.Default(),
		framesync.WithCompanion(testutils.NewFakeCompanion(testutils.Value(domain.CompanionStateOn))),
		framesync.WithDisplay(display),
		framesync.WithClock(testutils.NewFakeClock()),
	)
	require.NoError(t, err)

	snap, err := d.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, framesync.Snapshot{
		CompanionOn:  true,
		DisplayPower: domain.DisplayPowerStandby,
		ArtMode:      true,
	}, snap)
}

func TestDaemon_CheckReportsHelperFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Loop.MaxAttempts = 2

	d, err := framesync.New(cfg,
		framesync.WithCompanion(testutils.NewFakeCompanion(testutils.Fail(domain.ErrHelperNotFound))),
		framesync.WithDisplay(testutils.NewFakeDisplay()),
		framesync.WithClock(testutils.NewFakeClock()),
	)
	require.NoError(t, err)

	snap, err := d.Check(context.Background())
	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.True(t, strings.HasPrefix(err.Error(), "companion:"))
	assert.Equal(t, domain.DisplayPowerOn, snap.DisplayPower)
}

func TestDaemon_ManualCommands(t *testing.T) {
	display := testutils.NewFakeDisplay()
	d, err := framesync.New(config.Default(),
		framesync.WithCompanion(testutils.NewFakeCompanion()),
		framesync.WithDisplay(display),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, d.TogglePower(ctx))
	require.NoError(t, d.EnableArtMode(ctx))
	assert.Equal(t, []string{"toggle_power", "set_art_mode:on"}, display.Commands())

	display.ToggleErr = errors.New("unreachable")
	assert.ErrorContains(t, d.TogglePower(ctx), "unreachable")
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := framesync.New(config.Default())

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Problems, "display.host is required")
	assert.Contains(t, verr.Problems, "companion.id is required")
}

func TestNew_RejectsLeaseTTLTooShortToRefresh(t *testing.T) {
	for _, ttl := range []time.Duration{0, 2 * time.Nanosecond} {
		cfg := config.Default()
		cfg.Lock.TTL = ttl

		_, err := framesync.New(cfg,
			framesync.WithCompanion(testutils.NewFakeCompanion()),
			framesync.WithDisplay(testutils.NewFakeDisplay()),
			framesync.WithLocker(memory.NewLocker()),
		)

		var verr *config.ValidationError
		require.ErrorAs(t, err, &verr, "ttl %s", ttl)
		assert.Contains(t, verr.Problems[0], "too short to refresh a lease")
	}
}

func TestNew_ZeroLeaseTTLWithoutLocker(t *testing.T) {
	cfg := config.Default()
	cfg.Lock.TTL = 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d, err := framesync.New(cfg,
		framesync.WithCompanion(testutils.NewFakeCompanion(testutils.Value(domain.CompanionStateOn))),
		framesync.WithDisplay(testutils.NewFakeDisplay()),
		framesync.WithClock(testutils.NewFakeClock()),
		framesync.WithLifecycleHooks(stopOn(domain.BranchEngaged, cancel)),
	)
	require.NoError(t, err)
	assert.NoError(t, d.Run(ctx))
}
