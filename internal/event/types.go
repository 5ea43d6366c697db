package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "task.started", "run.phase")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event types published during a run.
const (
	TypePhaseChanged = "run.phase"
	TypeTaskStarted  = "task.started"
	TypeTaskFinished = "task.finished"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// PhaseChangedEvent is emitted when the orchestrator moves to a new state.
type PhaseChangedEvent struct {
	baseEvent
	From string // State being left
	To   string // State being entered
}

// NewPhaseChangedEvent creates a PhaseChangedEvent.
func NewPhaseChangedEvent(from, to string) PhaseChangedEvent {
	return PhaseChangedEvent{
		baseEvent: newBaseEvent(TypePhaseChanged),
		From:      from,
		To:        to,
	}
}

// -----------------------------------------------------------------------------
// Task Events
// -----------------------------------------------------------------------------

// TaskStartedEvent is emitted right before a task runs.
type TaskStartedEvent struct {
	baseEvent
	Name        string // Task key
	Label       string // Report label
	Phase       string // "sequential" or "parallel"
	Description string // Progress text, e.g. "pruning package cache..."
}

// NewTaskStartedEvent creates a TaskStartedEvent.
func NewTaskStartedEvent(name, label, phase, description string) TaskStartedEvent {
	return TaskStartedEvent{
		baseEvent:   newBaseEvent(TypeTaskStarted),
		Name:        name,
		Label:       label,
		Phase:       phase,
		Description: description,
	}
}

// TaskFinishedEvent is emitted once a task's outcome has been recorded.
type TaskFinishedEvent struct {
	baseEvent
	Name      string
	Label     string
	Phase     string
	Succeeded bool
	Message   string
	Duration  time.Duration
}

// NewTaskFinishedEvent creates a TaskFinishedEvent.
func NewTaskFinishedEvent(name, label, phase string, succeeded bool, message string, duration time.Duration) TaskFinishedEvent {
	return TaskFinishedEvent{
		baseEvent: newBaseEvent(TypeTaskFinished),
		Name:      name,
		Label:     label,
		Phase:     phase,
		Succeeded: succeeded,
		Message:   message,
		Duration:  duration,
	}
}
