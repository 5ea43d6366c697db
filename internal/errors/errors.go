// Package errors provides centralized error definitions and error handling
// utilities for upkeep. It defines sentinel errors, domain error types for
// external commands, tasks and configuration, and classification helpers.
//
// # Error Types
//
//   - CommandError: an external command exited nonzero or could not start
//   - TaskError: a task misbehaved at its boundary (panic, duplicate record)
//   - ConfigError: invalid configuration or task registry definition
//
// # Usage
//
//	err := errors.NewCommandError("pacman", []string{"-Qtdq"}, 1, errors.ErrCommandFailed)
//	if errors.Is(err, errors.ErrCommandFailed) { ... }
//
//	var cmdErr *errors.CommandError
//	if errors.As(err, &cmdErr) && !cmdErr.Started() { ... }
//
// Task failures never travel as errors past the task boundary: a Runner
// collapses a CommandError into a boolean and a task turns that boolean into
// an Outcome. The types here exist for logging and for the few places that
// report errors to a caller (configuration, registry construction, reporting).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Command-related sentinel errors
var (
	// ErrCommandFailed indicates that a command ran and exited nonzero.
	ErrCommandFailed = New("command failed")
	// ErrCommandNotStarted indicates that a command could not be launched.
	ErrCommandNotStarted = New("command could not be started")
	// ErrCommandTimeout indicates that a command was killed after its timeout.
	ErrCommandTimeout = New("command timed out")
)

// Task and run sentinel errors
var (
	// ErrTaskPanicked indicates that a task panicked inside its run function.
	ErrTaskPanicked = New("task panicked")
	// ErrUnknownTask indicates a result for a task name that was never registered.
	ErrUnknownTask = New("unknown task")
	// ErrAlreadyRecorded indicates a second result for the same task name.
	ErrAlreadyRecorded = New("result already recorded")
	// ErrDuplicateTask indicates two registered tasks share a name.
	ErrDuplicateTask = New("duplicate task name")
	// ErrInvalidTransition indicates an out-of-order orchestrator state change.
	ErrInvalidTransition = New("invalid state transition")
	// ErrAlreadyRun indicates that an orchestrator was run twice.
	ErrAlreadyRun = New("orchestrator already run")
	// ErrTasksFailed indicates that at least one task reported failure.
	ErrTasksFailed = New("one or more tasks failed")
)

// Configuration sentinel errors
var (
	// ErrInvalidConfig indicates that configuration validation failed.
	ErrInvalidConfig = New("invalid configuration")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// UpkeepError is the base interface for all upkeep errors.
type UpkeepError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain Errors
// -----------------------------------------------------------------------------

// CommandError describes a failed external command invocation.
//
// Example:
//
//	err := errors.NewCommandError("yay", []string{"--noconfirm"}, 1, errors.ErrCommandFailed)
//	fmt.Println(err) // "command error [yay --noconfirm, exit=1]: command failed"
type CommandError struct {
	baseError
	Command  string
	Args     []string
	ExitCode int
}

// NewCommandError creates a new CommandError. An exitCode of -1 means the
// process never produced an exit status (it could not be started or was
// killed).
func NewCommandError(command string, args []string, exitCode int, cause error) *CommandError {
	severity := SeverityWarning
	if errors.Is(cause, ErrCommandNotStarted) {
		severity = SeverityError
	}
	return &CommandError{
		baseError: baseError{
			message:    "command failed",
			cause:      cause,
			severity:   severity,
			retryable:  errors.Is(cause, ErrCommandTimeout),
			userFacing: true,
		},
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
	}
}

// CommandLine returns the command and its arguments joined by spaces.
func (e *CommandError) CommandLine() string {
	if len(e.Args) == 0 {
		return e.Command
	}
	return e.Command + " " + strings.Join(e.Args, " ")
}

// Started reports whether the process was launched at all.
func (e *CommandError) Started() bool {
	return !errors.Is(e.cause, ErrCommandNotStarted)
}

// Error returns the formatted error message.
func (e *CommandError) Error() string {
	parts := []string{e.CommandLine()}
	if e.ExitCode >= 0 {
		parts = append(parts, fmt.Sprintf("exit=%d", e.ExitCode))
	}
	prefix := fmt.Sprintf("command error [%s]", strings.Join(parts, ", "))
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *CommandError) Is(target error) bool {
	if _, ok := target.(*CommandError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TaskError represents a fault at a task boundary, as opposed to a command
// failure, which a task reports through its Outcome.
//
// Example:
//
//	err := errors.NewTaskError("recovered panic", errors.ErrTaskPanicked).WithTask("orphans").WithPhase("parallel")
type TaskError struct {
	baseError
	Task  string
	Phase string
}

// NewTaskError creates a new TaskError.
func NewTaskError(message string, cause error) *TaskError {
	return &TaskError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithTask adds the task name to the error context.
func (e *TaskError) WithTask(name string) *TaskError {
	e.Task = name
	return e
}

// WithPhase adds the phase name to the error context.
func (e *TaskError) WithPhase(phase string) *TaskError {
	e.Phase = phase
	return e
}

// WithSeverity sets the error severity.
func (e *TaskError) WithSeverity(s Severity) *TaskError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *TaskError) Error() string {
	var parts []string
	if e.Task != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.Task))
	}
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.Phase))
	}

	prefix := "task error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("task error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TaskError) Is(target error) bool {
	if _, ok := target.(*TaskError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ConfigError represents an invalid configuration value or task definition.
type ConfigError struct {
	baseError
	Field string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds the offending field to the error context.
func (e *ConfigError) WithField(field string) *ConfigError {
	e.Field = field
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	prefix := "config error"
	if e.Field != "" {
		prefix = fmt.Sprintf("config error [%s]", e.Field)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	if target == ErrInvalidConfig {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var upkeepErr UpkeepError
	if As(err, &upkeepErr) {
		return upkeepErr.IsRetryable()
	}

	return Is(err, ErrCommandTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var upkeepErr UpkeepError
	if As(err, &upkeepErr) {
		return upkeepErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement UpkeepError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var upkeepErr UpkeepError
	if As(err, &upkeepErr) {
		return upkeepErr.Severity()
	}

	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
