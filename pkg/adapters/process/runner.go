package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
)

// DefaultWaitDelay bounds how long Run waits for output pipes after the helper is killed.
const DefaultWaitDelay = time.Second

// Runner executes a local helper process and returns its trimmed stdout.
// Every call starts a fresh process; nothing is kept between calls.
type Runner struct {
	command string
	args    []string
	baseDir string
	env     []string
	timeout time.Duration
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithArgs sets arguments placed before the per-call arguments.
func WithArgs(args ...string) RunnerOption {
	return func(r *Runner) {
		r.args = append([]string(nil), args...)
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithEnv adds KEY=VALUE pairs to the inherited environment.
func WithEnv(env map[string]string) RunnerOption {
	return func(r *Runner) {
		for k, v := range env {
			r.env = append(r.env, fmt.Sprintf("%s=%s", k, v))
		}
	}
}

// WithTimeout bounds every invocation. Zero means no bound other than the caller's context.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a Runner for the given command.
func NewRunner(command string, opts ...RunnerOption) *Runner {
	r := &Runner{command: command}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Command returns the configured executable.
func (r *Runner) Command() string {
	return r.command
}

// Run executes the helper with the configured args followed by args.
// A missing executable is reported as domain.ErrHelperNotFound.
// On a non-zero exit the trimmed stdout is still returned alongside the error.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := append(append([]string{}, r.args...), args...)
	cmd := exec.CommandContext(ctx, r.command, argv...)
	cmd.Dir = r.baseDir
	cmd.WaitDelay = DefaultWaitDelay
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := strings.TrimSpace(stdout.String())
	if err == nil {
		return output, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrHelperNotFound, r.command)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return output, fmt.Errorf("helper %s: %w", r.command, ctxErr)
	}
	return output, fmt.Errorf("helper %s failed: %v. Stderr: %s", r.command, err, strings.TrimSpace(stderr.String()))
}
