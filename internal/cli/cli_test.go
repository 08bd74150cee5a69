package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/framesync"
	"github.com/aretw0/framesync/internal/config"
	"github.com/aretw0/framesync/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  host: from-file\ncompanion:\n  id: file-id\n"), 0o644))

	cfg, err := LoadConfig(RunOptions{ConfigPath: path, Host: "10.0.0.9", Debug: true, StatusAddr: ":9100"})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.9", cfg.Display.Host)
	assert.Equal(t, "file-id", cfg.Companion.ID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9100", cfg.Status.Addr)
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig(RunOptions{Host: "tv", CompanionID: "atv", RedisURL: "redis://x"})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "redis://x", cfg.Lock.RedisURL)
}

func TestCreateLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := createLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("skipped")
	logger.Warn("kept", "error", errors.New("x"))

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"err":"x"`)

	_, err = createLogger(config.LogConfig{Level: "chatty"}, &buf)
	assert.Error(t, err)
}

func TestSnapshotText(t *testing.T) {
	out := snapshotText(framesync.Snapshot{CompanionOn: true, DisplayPower: domain.DisplayPowerStandby})
	assert.Equal(t, "companion:     on\ndisplay power: standby\nart mode:      off\n", out)
}

func TestSnapshotMarkdown(t *testing.T) {
	md := snapshotMarkdown(framesync.Snapshot{ArtMode: true, DisplayPower: domain.DisplayPowerOn}, errors.New("companion: gave up"))
	assert.Contains(t, md, "| Art mode | on |")
	assert.Contains(t, md, "| Display power | on |")
	assert.Contains(t, md, "companion: gave up")
}

func TestCheck_InvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Check(CheckOptions{Timeout: time.Second}, &stdout, &stderr)

	var verr *config.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, stdout.String())
}

func TestSignalContext_CancelWithoutSignal(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := createDebugHooks(logger)
	ctx := context.Background()

	hooks.EmitProbe(ctx, &domain.ProbeEvent{Probe: domain.ProbeArtMode, Attempt: 2, Value: "on"})
	hooks.EmitAction(ctx, &domain.ActionEvent{Action: domain.ActionTogglePower})
	hooks.EmitTick(ctx, &domain.TickEvent{Report: domain.TickReport{Branch: domain.BranchNudge}})

	assert.Contains(t, buf.String(), "probe=art_mode attempt=2 value=on")
	assert.Contains(t, buf.String(), "action=toggle_power")
	assert.Contains(t, buf.String(), "branch=nudge")
}

func TestNewDaemon_LogLevel(t *testing.T) {
	ctx := context.Background()
	base := RunOptions{Host: "tv", CompanionID: "atv"}

	_, logger, err := newDaemon(base, io.Discard)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	path := filepath.Join(t.TempDir(), "framesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))
	fromFile := base
	fromFile.ConfigPath = path
	_, logger, err = newDaemon(fromFile, io.Discard)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.True(t, logger.Enabled(ctx, slog.LevelError))

	fromFlag := fromFile
	fromFlag.LogLevel = "debug"
	_, logger, err = newDaemon(fromFlag, io.Discard)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}
