// Package results holds the outcomes of a maintenance run.
//
// A Table is created with the full set of task names before any task starts.
// Each entry starts absent and may be written exactly once, so concurrent
// tasks can each record their own outcome without coordinating with each
// other. Once all tasks have been joined the table is read in its fixed key
// order to build the report.
package results

import (
	"fmt"
	"sync"

	"github.com/Iron-Ham/upkeep/internal/errors"
	"github.com/Iron-Ham/upkeep/internal/task"
)

// NoResultMessage describes a task that finished without recording an outcome.
const NoResultMessage = "no result recorded"

// Row is one entry of the table in report order.
type Row struct {
	Name     string
	Outcome  task.Outcome
	Recorded bool
}

// Table maps task names to outcomes. It is safe for concurrent use.
type Table struct {
	mu       sync.Mutex
	order    []string
	outcomes map[string]task.Outcome
	known    map[string]struct{}
}

// NewTable creates an empty table keyed by names. Duplicate names are
// collapsed; the first occurrence fixes the position.
func NewTable(names []string) *Table {
	t := &Table{
		order:    make([]string, 0, len(names)),
		outcomes: make(map[string]task.Outcome, len(names)),
		known:    make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, ok := t.known[name]; ok {
			continue
		}
		t.known[name] = struct{}{}
		t.order = append(t.order, name)
	}
	return t
}

// Record stores the outcome of the named task. It fails for a name the table
// was not created with and for a second write to the same name.
func (t *Table) Record(name string, outcome task.Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.known[name]; !ok {
		return fmt.Errorf("record %q: %w", name, errors.ErrUnknownTask)
	}
	if _, ok := t.outcomes[name]; ok {
		return fmt.Errorf("record %q: %w", name, errors.ErrAlreadyRecorded)
	}
	t.outcomes[name] = outcome
	return nil
}

// Get returns the outcome recorded for name.
func (t *Table) Get(name string) (task.Outcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.outcomes[name]
	return o, ok
}

// Len returns the number of recorded outcomes.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outcomes)
}

// Names returns the table keys in order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Missing returns the keys that have no outcome yet, in order.
func (t *Table) Missing() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var missing []string
	for _, name := range t.order {
		if _, ok := t.outcomes[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete reports whether every key has an outcome.
func (t *Table) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outcomes) == len(t.order)
}

// Failures returns the number of recorded outcomes that did not succeed.
func (t *Table) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, o := range t.outcomes {
		if !o.Succeeded {
			n++
		}
	}
	return n
}

// Rows returns every key with its outcome, in order.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]Row, len(t.order))
	for i, name := range t.order {
		o, ok := t.outcomes[name]
		rows[i] = Row{Name: name, Outcome: o, Recorded: ok}
	}
	return rows
}
