package command

import (
	"context"
	"strings"
	"sync"
)

// Call records one invocation made through a Fake.
type Call struct {
	Name    string
	Args    []string
	Capture bool
}

// Line returns the command line of the call, the key Fake scripts by.
func (c Call) Line() string {
	return commandLine(c.Name, c.Args)
}

// Fake is a scripted Runner for tests. Results are keyed by the full command
// line. It is safe for concurrent use.
type Fake struct {
	mu       sync.Mutex
	fallback bool
	results  map[string][]bool
	outputs  map[string]string
	served   map[string]int
	calls    []Call
}

// NewFake creates a Fake whose unscripted commands report fallback.
func NewFake(fallback bool) *Fake {
	return &Fake{
		fallback: fallback,
		results:  make(map[string][]bool),
		outputs:  make(map[string]string),
		served:   make(map[string]int),
	}
}

// Script sets the results of successive Execute calls for a command line.
// Once the script is exhausted its last value repeats.
func (f *Fake) Script(results []bool, name string, args ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[commandLine(name, args)] = append([]bool(nil), results...)
	return f
}

// Output sets the text returned by Capture for a command line.
func (f *Fake) Output(text string, name string, args ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[commandLine(name, args)] = text
	return f
}

// Execute implements Runner.
func (f *Fake) Execute(_ context.Context, name string, args ...string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})

	line := commandLine(name, args)
	script, ok := f.results[line]
	if !ok || len(script) == 0 {
		return f.fallback
	}
	n := f.served[line]
	f.served[line] = n + 1
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n]
}

// Capture implements Runner.
func (f *Fake) Capture(_ context.Context, name string, args ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...), Capture: true})
	return strings.TrimSpace(f.outputs[commandLine(name, args)])
}

// Calls returns every invocation in the order it was made.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the command line of every invocation in order.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.Line()
	}
	return lines
}

// Count returns how many times a command line was invoked.
func (f *Fake) Count(name string, args ...string) int {
	line := commandLine(name, args)

	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Line() == line {
			n++
		}
	}
	return n
}
