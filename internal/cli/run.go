package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/framesync"
	"github.com/aretw0/framesync/internal/config"
	"github.com/aretw0/framesync/internal/logging"
	"github.com/aretw0/framesync/internal/presentation/tui"
	"golang.org/x/term"
)

// RunOptions carries the command-line overrides shared by every command.
type RunOptions struct {
	ConfigPath  string
	Host        string
	CompanionID string
	LogLevel    string
	LogFormat   string
	StatusAddr  string
	RedisURL    string
	Debug       bool
	NoBanner    bool
}

// LoadConfig reads the config file and applies the flag overrides on top.
func LoadConfig(opts RunOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	applyOverrides(&cfg, opts)
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts RunOptions) {
	if opts.Host != "" {
		cfg.Display.Host = opts.Host
	}
	if opts.CompanionID != "" {
		cfg.Companion.ID = opts.CompanionID
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	if opts.StatusAddr != "" {
		cfg.Status.Addr = opts.StatusAddr
	}
	if opts.RedisURL != "" {
		cfg.Lock.RedisURL = opts.RedisURL
	}
}

// Execute runs the controller until SIGINT or SIGTERM.
func Execute(opts RunOptions) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := createLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	if !opts.NoBanner && isTerminal(os.Stdout) {
		tui.PrintBanner(os.Stdout, framesync.Version)
	}

	daemonOpts := []framesync.Option{framesync.WithLogger(logger)}
	if opts.Debug {
		daemonOpts = append(daemonOpts, framesync.WithLifecycleHooks(createDebugHooks(logger)))
	}
	d, err := framesync.New(cfg, daemonOpts...)
	if err != nil {
		return fmt.Errorf("error initializing framesync: %w", err)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	runErr := d.Run(sigCtx)
	logCompletion(logger, runErr, sigCtx.Signal())
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// newDaemon builds a daemon for the one-shot commands, with logs at warn unless asked.
func newDaemon(opts RunOptions, stderr io.Writer) (*framesync.Daemon, *slog.Logger, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	// Quieter than the daemon unless the flag or the file chose a level.
	if opts.LogLevel == "" && !opts.Debug && cfg.Log.Level == config.Default().Log.Level {
		cfg.Log.Level = "warn"
	}
	// One-shot commands never take the lease or serve status.
	cfg.Lock.RedisURL = ""
	cfg.Status.Addr = ""

	logger, err := createLogger(cfg.Log, stderr)
	if err != nil {
		return nil, nil, err
	}
	d, err := framesync.New(cfg, framesync.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing framesync: %w", err)
	}
	return d, logger, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// createLogger builds the application logger from the log section.
func createLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, cfg.Format), nil
}
