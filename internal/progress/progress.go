// Package progress shows what a maintenance run is doing while it runs.
//
// A Display subscribes to the run's event bus. The plain display prints one
// line when a task starts and one when it finishes; the interactive display
// keeps a live list of all tasks with a spinner next to the running ones.
// The interactive display quits its program as soon as the run reaches the
// joined state, so the report prints below the final frame.
package progress

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Iron-Ham/upkeep/internal/config"
	"github.com/Iron-Ham/upkeep/internal/event"
	"github.com/Iron-Ham/upkeep/internal/task"
)

// Display renders run progress from bus events.
type Display interface {
	// Start subscribes to the bus and begins rendering.
	Start(bus *event.Bus) error
	// Stop ends rendering and unsubscribes. It is safe to call more than once.
	Stop()
}

// Item is a task as the display knows it.
type Item struct {
	Name        string
	Label       string
	Description string
}

// Items converts registry tasks to display items, keeping their order.
func Items(tasks []task.Task) []Item {
	items := make([]Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Name: t.Name, Label: t.Label, Description: t.Description}
	}
	return items
}

// Resolve turns a configured mode into a concrete one. "auto" becomes
// "interactive" on a terminal and "plain" otherwise; unknown modes are plain.
func Resolve(mode string, terminal bool) string {
	switch mode {
	case config.ProgressInteractive, config.ProgressPlain, config.ProgressOff:
		return mode
	case config.ProgressAuto:
		if terminal {
			return config.ProgressInteractive
		}
		return config.ProgressPlain
	default:
		return config.ProgressPlain
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New creates the display for a resolved mode.
func New(mode string, w io.Writer, items []Item) Display {
	switch mode {
	case config.ProgressInteractive:
		return NewInteractive(w, items)
	case config.ProgressOff:
		return nop{}
	default:
		return NewPlain(w)
	}
}

type nop struct{}

func (nop) Start(*event.Bus) error { return nil }
func (nop) Stop()                  {}
