// Package task defines the units of maintenance work: a Task runs external
// commands through a command.Runner and condenses what happened into a single
// Outcome for the report.
//
// Tasks belong to one of two phases. Sequential tasks (mirror refresh,
// package upgrade) run one after another in registration order; parallel
// tasks (pruning, orphan removal, cache and container clean-up, toolchain
// update) are independent of each other and run concurrently once the
// sequential phase is done.
package task

import (
	"context"

	"github.com/Iron-Ham/upkeep/internal/command"
)

// Default outcome messages used when a task does not supply one.
const (
	DefaultSuccessMessage = "succeeded"
	DefaultFailureMessage = "failed"
)

// Outcome is the result of one task run.
type Outcome struct {
	// Label is the display name shown in the report's Item column.
	Label string
	// Succeeded reports whether the task achieved its goal.
	Succeeded bool
	// Message is a short human-readable description; never empty.
	Message string
}

// Success returns a successful Outcome.
func Success(label, message string) Outcome {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return Outcome{Label: label, Succeeded: true, Message: message}
}

// Failure returns a failed Outcome.
func Failure(label, message string) Outcome {
	if message == "" {
		message = DefaultFailureMessage
	}
	return Outcome{Label: label, Succeeded: false, Message: message}
}

// Normalize fills in a missing label or message.
func (o Outcome) Normalize(label string) Outcome {
	if o.Label == "" {
		o.Label = label
	}
	if o.Message == "" {
		if o.Succeeded {
			o.Message = DefaultSuccessMessage
		} else {
			o.Message = DefaultFailureMessage
		}
	}
	return o
}

// Phase identifies when a task runs.
type Phase int

const (
	// Sequential tasks run in order on the caller's goroutine.
	Sequential Phase = iota
	// Parallel tasks run concurrently after the sequential phase.
	Parallel
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p == Sequential || p == Parallel
}

// RunFunc performs a task's work.
type RunFunc func(ctx context.Context) Outcome

// Task is a named unit of maintenance work. It holds no state between runs.
type Task struct {
	// Name is the unique key of the task in the result table.
	Name string
	// Label is the report label.
	Label string
	// Phase selects when the task runs.
	Phase Phase
	// Description is shown while the task is running.
	Description string
	// Run does the work.
	Run RunFunc
}

// Step is one external command of a task.
type Step struct {
	Command string
	Args    []string
}

// Privileged returns a Step that runs name through the sudo program. An
// empty sudo runs the command directly.
func Privileged(sudo, name string, args ...string) Step {
	if sudo == "" {
		return Step{Command: name, Args: args}
	}
	return Step{Command: sudo, Args: append([]string{name}, args...)}
}

// With returns a copy of the step with extra arguments appended.
func (s Step) With(args ...string) Step {
	all := make([]string, 0, len(s.Args)+len(args))
	all = append(all, s.Args...)
	all = append(all, args...)
	return Step{Command: s.Command, Args: all}
}

// Execute runs the step through r.
func (s Step) Execute(ctx context.Context, r command.Runner) bool {
	return r.Execute(ctx, s.Command, s.Args...)
}

// Capture runs the step through r and returns its output.
func (s Step) Capture(ctx context.Context, r command.Runner) string {
	return r.Capture(ctx, s.Command, s.Args...)
}

// SequenceSpec describes a task made of steps that all have to succeed.
type SequenceSpec struct {
	Name           string
	Label          string
	Phase          Phase
	Description    string
	Steps          []Step
	SuccessMessage string
	FailureMessage string
}

// Sequence builds a task that runs the steps in order and stops at the first
// failing one. A task without steps succeeds.
func Sequence(spec SequenceSpec, r command.Runner) Task {
	steps := append([]Step(nil), spec.Steps...)
	return Task{
		Name:        spec.Name,
		Label:       spec.Label,
		Phase:       spec.Phase,
		Description: spec.Description,
		Run: func(ctx context.Context) Outcome {
			for _, step := range steps {
				if !step.Execute(ctx, r) {
					return Failure(spec.Label, spec.FailureMessage)
				}
			}
			return Success(spec.Label, spec.SuccessMessage)
		},
	}
}
