package task

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/upkeep/internal/errors"
)

// Registry is an ordered set of tasks with unique names.
type Registry struct {
	tasks []Task
	index map[string]int
}

// NewRegistry validates the tasks and returns them as a Registry that keeps
// their order.
func NewRegistry(tasks ...Task) (*Registry, error) {
	reg := &Registry{
		tasks: make([]Task, 0, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}
	for i, t := range tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		switch {
		case strings.TrimSpace(t.Name) == "":
			return nil, errors.NewConfigError("task name must not be empty", nil).WithField(field)
		case t.Run == nil:
			return nil, errors.NewConfigError(fmt.Sprintf("task %q has no run function", t.Name), nil).WithField(field)
		case !t.Phase.Valid():
			return nil, errors.NewConfigError(fmt.Sprintf("task %q has unknown phase %d", t.Name, int(t.Phase)), nil).WithField(field)
		}
		if _, dup := reg.index[t.Name]; dup {
			return nil, errors.NewConfigError(fmt.Sprintf("task %q registered twice", t.Name), errors.ErrDuplicateTask).WithField(field)
		}
		if t.Label == "" {
			t.Label = t.Name
		}
		reg.index[t.Name] = len(reg.tasks)
		reg.tasks = append(reg.tasks, t)
	}
	return reg, nil
}

// Tasks returns all tasks in registration order.
func (r *Registry) Tasks() []Task {
	return append([]Task(nil), r.tasks...)
}

// Names returns the task names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		names[i] = t.Name
	}
	return names
}

// Phase returns the tasks of one phase in registration order.
func (r *Registry) Phase(p Phase) []Task {
	var tasks []Task
	for _, t := range r.tasks {
		if t.Phase == p {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Lookup returns the task with the given name.
func (r *Registry) Lookup(name string) (Task, bool) {
	i, ok := r.index[name]
	if !ok {
		return Task{}, false
	}
	return r.tasks[i], true
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Without returns a registry without the tasks whose names match any of the
// glob patterns. A pattern that does not compile or matches no task is a
// configuration error.
func (r *Registry) Without(patterns []string) (*Registry, error) {
	if len(patterns) == 0 {
		return r, nil
	}

	matchers := make([]glob.Glob, len(patterns))
	for i, pattern := range patterns {
		field := fmt.Sprintf("tasks.skip[%d]", i)
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid pattern %q", pattern), err).WithField(field)
		}
		if !r.matchesAny(g) {
			return nil, errors.NewConfigError(
				fmt.Sprintf("pattern %q matches no task (known: %s)", pattern, strings.Join(r.Names(), ", ")),
				errors.ErrUnknownTask,
			).WithField(field)
		}
		matchers[i] = g
	}

	var kept []Task
	for _, t := range r.tasks {
		if !skipped(t.Name, matchers) {
			kept = append(kept, t)
		}
	}
	return NewRegistry(kept...)
}

func (r *Registry) matchesAny(g glob.Glob) bool {
	for _, t := range r.tasks {
		if g.Match(t.Name) {
			return true
		}
	}
	return false
}

func skipped(name string, matchers []glob.Glob) bool {
	for _, g := range matchers {
		if g.Match(name) {
			return true
		}
	}
	return false
}
