// Package report renders the result table of a maintenance run as two
// left-justified, fixed-width columns:
//
//	Item             Result
//	Mirror           ✅ mirror list is up-to-date
//	Packages         ❌ package update and key refresh failed
//
// Rows appear in the table's key order, which is the task registration order,
// regardless of the order in which the tasks finished.
package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/upkeep/internal/results"
	"github.com/Iron-Ham/upkeep/internal/styles"
	"github.com/Iron-Ham/upkeep/internal/util"
)

// Column layout.
const (
	ItemWidth   = 15
	ResultWidth = 40
	Separator   = "  "
)

// Result markers.
const (
	CheckMark = "✅"
	CrossMark = "❌"
)

// Renderer writes result tables to a writer.
type Renderer struct {
	w      io.Writer
	styles styles.Styles
}

// New creates a Renderer for w. Colors are only emitted when w is a terminal
// that supports them.
func New(w io.Writer) *Renderer {
	return &Renderer{
		w:      w,
		styles: styles.New(lipgloss.NewRenderer(w)),
	}
}

// Report implements orchestrator.Reporter.
func (r *Renderer) Report(table *results.Table) error {
	_, err := io.WriteString(r.w, r.Render(table))
	return err
}

// Render returns the report as a string: a header line, one line per task,
// and a trailing blank line.
func (r *Renderer) Render(table *results.Table) string {
	var sb strings.Builder

	sb.WriteString(r.styles.Header.Render(pad("Item", ItemWidth)))
	sb.WriteString(Separator)
	sb.WriteString(r.styles.Header.Render(pad("Result", ResultWidth)))
	sb.WriteString("\n")

	for _, row := range table.Rows() {
		item, cell, ok := Cells(row)
		style := r.styles.Success
		if !ok {
			style = r.styles.Failure
		}
		sb.WriteString(r.styles.Item.Render(pad(item, ItemWidth)))
		sb.WriteString(Separator)
		sb.WriteString(style.Render(pad(cell, ResultWidth)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

// Cells returns the unstyled item and result text of a row and whether the
// row counts as a success.
func Cells(row results.Row) (item, result string, ok bool) {
	item = row.Outcome.Label
	if item == "" {
		item = row.Name
	}
	if !row.Recorded {
		return item, CrossMark + " " + results.NoResultMessage, false
	}

	mark := CrossMark
	if row.Outcome.Succeeded {
		mark = CheckMark
	}
	return util.SingleLine(item), mark + " " + util.SingleLine(row.Outcome.Message), row.Outcome.Succeeded
}

// pad left-justifies s in a column of the given display width. Longer values
// are kept whole and push the following column right.
func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
