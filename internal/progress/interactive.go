package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/upkeep/internal/event"
	"github.com/Iron-Ham/upkeep/internal/styles"
	"github.com/Iron-Ham/upkeep/internal/util"
)

// joinedState is the orchestrator state after which no task events follow.
const joinedState = "joined"

type taskState int

const (
	statePending taskState = iota
	stateRunning
	stateSucceeded
	stateFailed
)

// Messages sent into the program from bus handlers.
type (
	taskStartedMsg  struct{ name string }
	taskFinishedMsg struct {
		name      string
		succeeded bool
		message   string
	}
)

type row struct {
	item    Item
	state   taskState
	message string
}

// model is the bubbletea model of the interactive display.
type model struct {
	rows    []row
	index   map[string]int
	spinner spinner.Model
	styles  styles.Styles
	width   int
}

func newModel(items []Item, st styles.Styles) model {
	m := model{
		rows:    make([]row, len(items)),
		index:   make(map[string]int, len(items)),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.Spinner)),
		styles:  st,
	}
	for i, item := range items {
		m.rows[i] = row{item: item}
		m.index[item.Name] = i
	}
	return m
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case taskStartedMsg:
		if i, ok := m.index[msg.name]; ok {
			m.rows[i].state = stateRunning
		}
	case taskFinishedMsg:
		if i, ok := m.index[msg.name]; ok {
			m.rows[i].state = stateFailed
			if msg.succeeded {
				m.rows[i].state = stateSucceeded
			}
			m.rows[i].message = msg.message
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	for _, r := range m.rows {
		line := m.renderRow(r)
		if m.width > 0 {
			line = util.TruncateANSI(line, m.width)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m model) renderRow(r row) string {
	switch r.state {
	case stateRunning:
		text := r.item.Description
		if text == "" {
			text = r.item.Label + "..."
		}
		return m.spinner.View() + " " + m.styles.Header.Render(text)
	case stateSucceeded:
		return m.styles.Success.Render(fmt.Sprintf("✓ %s: %s", r.item.Label, util.SingleLine(r.message)))
	case stateFailed:
		return m.styles.Failure.Render(fmt.Sprintf("✗ %s: %s", r.item.Label, util.SingleLine(r.message)))
	default:
		return m.styles.Muted.Render("· " + r.item.Label)
	}
}

// Interactive renders a live task list with bubbletea.
type Interactive struct {
	w     io.Writer
	items []Item

	mu      sync.Mutex
	program *tea.Program
	bus     *event.Bus
	subs    []string
	done    chan struct{}
	stopped bool
}

// NewInteractive creates an interactive display writing to w.
func NewInteractive(w io.Writer, items []Item) *Interactive {
	return &Interactive{w: w, items: items}
}

// Start implements Display.
func (d *Interactive) Start(bus *event.Bus) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.program != nil {
		return fmt.Errorf("progress display already started")
	}

	st := styles.New(lipgloss.NewRenderer(d.w))
	d.program = tea.NewProgram(newModel(d.items, st),
		tea.WithOutput(d.w),
		tea.WithInput(nil),
	)
	d.bus = bus
	d.done = make(chan struct{})

	program, done := d.program, d.done
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()

	d.subs = append(d.subs,
		bus.Subscribe(event.TypeTaskStarted, func(e event.Event) {
			if ev, ok := e.(event.TaskStartedEvent); ok {
				program.Send(taskStartedMsg{name: ev.Name})
			}
		}),
		bus.Subscribe(event.TypeTaskFinished, func(e event.Event) {
			if ev, ok := e.(event.TaskFinishedEvent); ok {
				program.Send(taskFinishedMsg{name: ev.Name, succeeded: ev.Succeeded, message: ev.Message})
			}
		}),
		bus.Subscribe(event.TypePhaseChanged, func(e event.Event) {
			if ev, ok := e.(event.PhaseChangedEvent); ok && ev.To == joinedState {
				d.Stop()
			}
		}),
	)
	return nil
}

// Stop implements Display. It waits for the program to render its final
// frame and restore the terminal.
func (d *Interactive) Stop() {
	d.mu.Lock()
	if d.program == nil || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	program, done, subs := d.program, d.done, d.subs
	d.subs = nil
	d.mu.Unlock()

	for _, id := range subs {
		d.bus.Unsubscribe(id)
	}
	program.Quit()
	<-done
}
