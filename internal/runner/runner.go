// Package runner executes the external MySQL tools. Every run is synchronous,
// bounded by a timeout, and keeps stderr for diagnostics while stdout streams
// to the caller's writer.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"mysqlsync/cli/internal/logging"

	"github.com/pterm/pterm"
)

// ErrExecutableNotFound is returned before spawning when Command.Path does not exist.
var ErrExecutableNotFound = errors.New("executable not found")

const waitDelay = 2 * time.Second

// Command describes one external process invocation.
type Command struct {
	Path   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Dir    string
}

// String renders the command line with secrets masked.
func (c Command) String() string {
	return logging.Mask(strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " ")))
}

// Result holds the outcome of a finished process.
type Result struct {
	ExitCode int
	Stderr   string
	Duration time.Duration
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, c Command) (*Result, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	timeout time.Duration
	logger  *pterm.Logger
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithTimeout bounds every process wait. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *pterm.Logger) Option {
	return func(r *ExecRunner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an ExecRunner.
func New(opts ...Option) *ExecRunner {
	r := &ExecRunner{logger: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts c and waits for it. A non-zero exit, a timeout or a failure to
// start all return an error; the Result is non-nil whenever the process ran.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	if _, err := os.Stat(c.Path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExecutableNotFound, c.Path)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = &stderr
	// Children that inherit the pipes must not hold Wait open past a kill.
	cmd.WaitDelay = waitDelay

	r.logger.Debug("starting process", r.logger.Args("command", c.String()))

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
	}

	r.logger.Debug("process finished", r.logger.Args(
		"command", c.String(),
		"exit_code", res.ExitCode,
		"duration", res.Duration.String(),
	))

	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s timed out after %s", c.Path, r.timeout)
		}
		return res, fmt.Errorf("%s cancelled: %w", c.Path, ctxErr)
	}
	if err != nil {
		if res.Stderr != "" {
			return res, fmt.Errorf("%s exited with code %d: %s", c.Path, res.ExitCode, logging.Mask(res.Stderr))
		}
		return res, fmt.Errorf("%s failed: %w", c.Path, err)
	}
	return res, nil
}
