// Package output formats filterctl results for the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

func Clean(w io.Writer) {
	fmt.Fprintln(w, successStyle.Render("clean"))
}

// Blocked prints the rule that rejected a text.
func Blocked(w io.Writer, reason, category, word string) {
	line := errorStyle.Render("blocked") + " reason=" + reason
	if category != "" {
		line += " category=" + category
	}
	if word != "" {
		line += " word=" + word
	}
	fmt.Fprintln(w, line)
}

func Header(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}

func KeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %s %v\n", mutedStyle.Render(key+":"), value)
}

func Line(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}
