// Package util provides string helpers shared by the console outputs.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// Escape codes are kept and wide characters count by their display width.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate counts the tail in the final width
	return ansi.Truncate(s, maxWidth, "...")
}

// SingleLine folds runs of whitespace, line breaks included, to one space and
// trims the ends, so the text never spans more than one line.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
