package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/framesync/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func logCompletion(logger *slog.Logger, err error, sig os.Signal) {
	switch {
	case err != nil:
		logger.Error("controller exited", "error", err)
	case sig == os.Interrupt:
		logger.Info("interrupted, shutting down")
	case sig != nil:
		logger.Info("terminated, shutting down", "signal", sig.String())
	}
}

// createDebugHooks logs every probe attempt and command at debug level.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProbe: func(ctx context.Context, e *domain.ProbeEvent) {
			if e.Err != nil {
				logger.Debug("probe", "probe", e.Probe, "attempt", e.Attempt, "err", e.Err)
				return
			}
			logger.Debug("probe", "probe", e.Probe, "attempt", e.Attempt, "value", e.Value)
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			logger.Debug("action", "action", e.Action, "duration", e.Duration, "failed", e.Err != nil)
		},
		OnTick: func(ctx context.Context, e *domain.TickEvent) {
			logger.Debug("tick", "branch", e.Report.Branch, "actions", len(e.Report.Actions),
				"companion_was_on", e.Report.State.CompanionWasOn)
		},
	}
}
