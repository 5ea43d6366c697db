package orchestrator

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Iron-Ham/upkeep/internal/errors"
)

// State is a stage of a maintenance run.
type State string

const (
	// StateInit is the state before anything has run.
	StateInit State = "init"
	// StateSequential runs the sequential tasks one at a time.
	StateSequential State = "sequential"
	// StateParallel runs the parallel tasks concurrently.
	StateParallel State = "parallel"
	// StateJoined is entered once every parallel task has finished and the
	// result table is complete.
	StateJoined State = "joined"
	// StateReported is entered after the report has been rendered.
	StateReported State = "reported"
)

// AllStates returns the states in the order a run passes through them.
func AllStates() []State {
	return []State{StateInit, StateSequential, StateParallel, StateJoined, StateReported}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateReported
}

// next returns the only state reachable from s.
func (s State) next() (State, bool) {
	states := AllStates()
	i := slices.Index(states, s)
	if i < 0 || i == len(states)-1 {
		return "", false
	}
	return states[i+1], true
}

// Transition records one state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// stateMachine enforces the linear order of AllStates.
type stateMachine struct {
	mu      sync.Mutex
	current State
	history []Transition
	now     func() time.Time
}

func newStateMachine() *stateMachine {
	return &stateMachine{current: StateInit, now: time.Now}
}

func (m *stateMachine) state() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *stateMachine) transitions() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

// advance moves to the given state if it directly follows the current one.
func (m *stateMachine) advance(to State) (Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want, ok := m.current.next()
	if !ok || want != to {
		return Transition{}, fmt.Errorf("%s -> %s: %w", m.current, to, errors.ErrInvalidTransition)
	}

	tr := Transition{From: m.current, To: to, At: m.now()}
	m.current = to
	m.history = append(m.history, tr)
	return tr, nil
}
