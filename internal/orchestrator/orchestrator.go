// Package orchestrator runs a registry of maintenance tasks in two phases and
// collects their outcomes.
//
// The sequential phase runs its tasks one after another on the caller's
// goroutine. The parallel phase then starts one goroutine per task and waits
// for all of them. Every task runs behind a panic boundary, so a misbehaving
// task turns into a failed outcome instead of taking the run down, and the
// result table handed to the reporter always has an entry for every task.
package orchestrator

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/upkeep/internal/errors"
	"github.com/Iron-Ham/upkeep/internal/event"
	"github.com/Iron-Ham/upkeep/internal/logging"
	"github.com/Iron-Ham/upkeep/internal/results"
	"github.com/Iron-Ham/upkeep/internal/task"
)

// Reporter renders a completed result table.
type Reporter interface {
	Report(table *results.Table) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for run, phase and task messages.
func WithLogger(logger *logging.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBus sets the bus that receives phase and task events.
func WithBus(bus *event.Bus) Option {
	return func(o *Orchestrator) {
		o.bus = bus
	}
}

// WithReporter sets the reporter invoked once all tasks have been joined.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		o.reporter = r
	}
}

// Orchestrator executes one maintenance run.
type Orchestrator struct {
	registry *task.Registry
	logger   *logging.Logger
	bus      *event.Bus
	reporter Reporter
	runID    string
	machine  *stateMachine
	started  atomic.Bool
}

// New creates an Orchestrator for the tasks in reg.
func New(reg *task.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: reg,
		logger:   logging.NopLogger(),
		runID:    generateID(),
		machine:  newStateMachine(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithRun(o.runID)
	return o
}

// RunID returns the identifier attached to this run's log lines.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// State returns the current state of the run.
func (o *Orchestrator) State() State {
	return o.machine.state()
}

// History returns the state transitions made so far.
func (o *Orchestrator) History() []Transition {
	return o.machine.transitions()
}

// Run executes every task and returns the completed result table. Task
// failures are reported through the table, not through the error; the error
// is non-nil only when the run itself could not proceed or the reporter
// failed. Run may be called once.
func (o *Orchestrator) Run(ctx context.Context) (*results.Table, error) {
	if !o.started.CompareAndSwap(false, true) {
		return nil, errors.ErrAlreadyRun
	}

	table := results.NewTable(o.registry.Names())
	o.logger.Info("run started", "tasks", o.registry.Len())
	start := time.Now()

	if err := o.transition(StateSequential); err != nil {
		return table, err
	}
	for _, t := range o.registry.Phase(task.Sequential) {
		o.runTask(ctx, table, t)
	}

	if err := o.transition(StateParallel); err != nil {
		return table, err
	}
	var wg conc.WaitGroup
	for _, t := range o.registry.Phase(task.Parallel) {
		t := t
		wg.Go(func() {
			o.runTask(ctx, table, t)
		})
	}
	wg.Wait()

	o.fillMissing(table)
	if err := o.transition(StateJoined); err != nil {
		return table, err
	}

	var reportErr error
	if o.reporter != nil {
		if reportErr = o.reporter.Report(table); reportErr != nil {
			o.logger.Error("report failed", "error", reportErr.Error())
			reportErr = errors.Wrap(reportErr, "render report")
		}
	}
	if err := o.transition(StateReported); err != nil {
		return table, errors.Join(reportErr, err)
	}

	o.logger.Info("run finished",
		"failures", table.Failures(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return table, reportErr
}

func (o *Orchestrator) transition(to State) error {
	tr, err := o.machine.advance(to)
	if err != nil {
		o.logger.Error("state transition rejected", "to", to.String(), "error", err.Error())
		return err
	}
	o.logger.Debug("state changed", "from", tr.From.String(), "to", tr.To.String())
	o.publish(event.NewPhaseChangedEvent(tr.From.String(), tr.To.String()))
	return nil
}

// runTask runs one task and records its outcome under the task's own key.
func (o *Orchestrator) runTask(ctx context.Context, table *results.Table, t task.Task) {
	logger := o.logger.WithPhase(t.Phase.String()).WithTask(t.Name)
	o.publish(event.NewTaskStartedEvent(t.Name, t.Label, t.Phase.String(), t.Description))
	logger.Info("task started")

	start := time.Now()
	outcome := o.invoke(ctx, logger, t).Normalize(t.Label)
	duration := time.Since(start)

	if err := table.Record(t.Name, outcome); err != nil {
		taskErr := errors.NewTaskError("outcome not recorded", err).
			WithTask(t.Name).
			WithPhase(t.Phase.String())
		logger.Error("task result rejected", "error", taskErr.Error())
	}

	log := logger.Info
	if !outcome.Succeeded {
		log = logger.Warn
	}
	log("task finished",
		"succeeded", outcome.Succeeded,
		"message", outcome.Message,
		"duration_ms", duration.Milliseconds(),
	)
	o.publish(event.NewTaskFinishedEvent(t.Name, outcome.Label, t.Phase.String(), outcome.Succeeded, outcome.Message, duration))
}

// invoke calls the task's run function, converting a panic into a failed
// outcome.
func (o *Orchestrator) invoke(ctx context.Context, logger *logging.Logger, t task.Task) task.Outcome {
	var outcome task.Outcome
	var catcher panics.Catcher
	catcher.Try(func() {
		outcome = t.Run(ctx)
	})

	if r := catcher.Recovered(); r != nil {
		taskErr := errors.NewTaskError(fmt.Sprint(r.Value), errors.ErrTaskPanicked).
			WithTask(t.Name).
			WithPhase(t.Phase.String()).
			WithSeverity(errors.SeverityCritical)
		logger.Error("task panicked",
			"severity", errors.GetSeverity(taskErr).String(),
			"error", taskErr.Error(),
			"stack", string(r.Stack),
		)
		return task.Failure(t.Label, fmt.Sprintf("task panicked: %v", r.Value))
	}
	return outcome
}

// fillMissing records a failure for every task that left no outcome.
func (o *Orchestrator) fillMissing(table *results.Table) {
	for _, name := range table.Missing() {
		label := name
		if t, ok := o.registry.Lookup(name); ok {
			label = t.Label
		}
		o.logger.WithTask(name).Error("task left no result")
		if err := table.Record(name, task.Failure(label, results.NoResultMessage)); err != nil {
			o.logger.WithTask(name).Error("filling missing result failed", "error", err.Error())
		}
	}
}

func (o *Orchestrator) publish(e event.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}

// generateID creates a short random hex ID.
// Falls back to a timestamp-based ID if random generation fails.
func generateID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return hex.EncodeToString(b)
}
