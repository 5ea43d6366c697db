// Package command launches the external programs that maintenance tasks are
// made of. Tasks depend on the Runner interface; ExecRunner implements it with
// os/exec and Fake implements it for tests.
package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/Iron-Ham/upkeep/internal/errors"
	"github.com/Iron-Ham/upkeep/internal/logging"
)

// Runner executes external commands. Both methods block until the process
// exits and never return an error: a task only needs to know whether a
// command succeeded, or what it printed.
type Runner interface {
	// Execute runs the command and reports whether it exited with status zero.
	// A command that cannot be launched reports false.
	Execute(ctx context.Context, name string, args ...string) bool

	// Capture runs the command and returns its standard output with
	// surrounding whitespace removed. Output is returned even when the exit
	// status is nonzero; a command that cannot be launched returns "".
	Capture(ctx context.Context, name string, args ...string) string
}

// waitDelay bounds how long Wait blocks on inherited pipes after the process
// has been killed by a timeout.
const waitDelay = 5 * time.Second

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	logger  *logging.Logger
	timeout time.Duration
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithLogger sets the logger used for command lifecycle messages.
func WithLogger(logger *logging.Logger) Option {
	return func(r *ExecRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds every command. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithStdio connects the child processes to the given streams. Nil streams
// are connected to the null device.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewExecRunner creates an ExecRunner. By default commands have no timeout,
// read nothing, and their output is discarded.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute implements Runner.
func (r *ExecRunner) Execute(ctx context.Context, name string, args ...string) bool {
	return r.Run(ctx, name, args...) == nil
}

// Capture implements Runner.
func (r *ExecRunner) Capture(ctx context.Context, name string, args ...string) string {
	var out bytes.Buffer
	err := r.run(ctx, &out, name, args)

	var cmdErr *errors.CommandError
	if errors.As(err, &cmdErr) && !cmdErr.Started() {
		return ""
	}
	return strings.TrimSpace(out.String())
}

// Run executes the command and returns a *errors.CommandError describing any
// failure. Output goes to the configured stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return r.run(ctx, r.stdout, name, args)
}

func (r *ExecRunner) run(ctx context.Context, stdout io.Writer, name string, args []string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.stdin
	cmd.Stdout = stdout
	cmd.Stderr = r.stderr
	if r.timeout > 0 {
		cmd.WaitDelay = waitDelay
	}

	logger := r.logger.With("command", commandLine(name, args))
	logger.Debug("running command")

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	if runErr == nil {
		logger.Debug("command succeeded", "duration_ms", duration.Milliseconds())
		return nil
	}

	err := r.classify(ctx, name, args, runErr)
	logger.Warn("command failed",
		"exit_code", err.ExitCode,
		"started", err.Started(),
		"duration_ms", duration.Milliseconds(),
		"severity", errors.GetSeverity(err).String(),
		"retryable", errors.IsRetryable(err),
		"error", runErr.Error(),
	)
	return err
}

// classify turns an exec error into a CommandError. Exit code -1 marks a
// process that never reported a status.
func (r *ExecRunner) classify(ctx context.Context, name string, args []string, runErr error) *errors.CommandError {
	if r.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewCommandError(name, args, -1,
			fmt.Errorf("%w after %s", errors.ErrCommandTimeout, r.timeout))
	}

	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return errors.NewCommandError(name, args, exitErr.ExitCode(), errors.ErrCommandFailed)
	}

	return errors.NewCommandError(name, args, -1,
		fmt.Errorf("%w: %v", errors.ErrCommandNotStarted, runErr))
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
