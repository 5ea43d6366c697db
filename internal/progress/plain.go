package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/upkeep/internal/event"
	"github.com/Iron-Ham/upkeep/internal/styles"
)

// Plain prints a line per task event. Lines from parallel tasks interleave
// but never tear.
type Plain struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles.Styles
	bus    *event.Bus
	subs   []string
}

// NewPlain creates a plain display writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{
		w:      w,
		styles: styles.New(lipgloss.NewRenderer(w)),
	}
}

// Start implements Display.
func (p *Plain) Start(bus *event.Bus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bus = bus
	p.subs = append(p.subs,
		bus.Subscribe(event.TypeTaskStarted, p.started),
		bus.Subscribe(event.TypeTaskFinished, p.finished),
	)
	return nil
}

// Stop implements Display.
func (p *Plain) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range p.subs {
		p.bus.Unsubscribe(id)
	}
	p.subs = nil
}

func (p *Plain) started(e event.Event) {
	ev, ok := e.(event.TaskStartedEvent)
	if !ok {
		return
	}
	text := ev.Description
	if text == "" {
		text = ev.Label + "..."
	}
	p.println(p.styles.Header.Render(text))
}

func (p *Plain) finished(e event.Event) {
	ev, ok := e.(event.TaskFinishedEvent)
	if !ok {
		return
	}
	line := fmt.Sprintf("✓ %s: %s", ev.Label, ev.Message)
	style := p.styles.Success
	if !ev.Succeeded {
		line = fmt.Sprintf("✗ %s: %s", ev.Label, ev.Message)
		style = p.styles.Failure
	}
	p.println(style.Render(line))
}

func (p *Plain) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}
