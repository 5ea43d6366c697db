// Package styles holds the console colors shared by the progress display and
// the report.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
)

// Styles are lipgloss styles bound to one renderer, so that color support is
// detected for the writer the output actually goes to.
type Styles struct {
	// Header styles the report's column headers and running task descriptions.
	Header lipgloss.Style
	// Item styles the report's first column.
	Item lipgloss.Style
	// Success styles succeeded results.
	Success lipgloss.Style
	// Failure styles failed results.
	Failure lipgloss.Style
	// Muted styles pending tasks and secondary text.
	Muted lipgloss.Style
	// Spinner styles the progress spinner.
	Spinner lipgloss.Style
}

// New builds the styles for a renderer. A nil renderer uses lipgloss's
// default renderer, which writes to stdout.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Header:  r.NewStyle().Foreground(WarningColor),
		Item:    r.NewStyle(),
		Success: r.NewStyle().Foreground(SecondaryColor),
		Failure: r.NewStyle().Foreground(ErrorColor),
		Muted:   r.NewStyle().Foreground(MutedColor),
		Spinner: r.NewStyle().Foreground(PrimaryColor),
	}
}
