package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	accentColor = lipgloss.Color("#0ea5e9")
	dimColor    = lipgloss.Color("#6b7280")
	warnColor   = lipgloss.Color("#eab308")
	errorColor  = lipgloss.Color("#ef4444")
	okColor     = lipgloss.Color("#22c55e")
)

// styleSet holds the styles used for human-facing CLI output. Every style is
// a no-op when the writer is not a terminal.
type styleSet struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Dim   lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	OK    lipgloss.Style
}

func plainStyles() styleSet {
	s := lipgloss.NewStyle()
	return styleSet{Title: s, Label: s, Dim: s, Warn: s, Error: s, OK: s}
}

func stylesFor(w io.Writer) styleSet {
	if !isTerminal(w) {
		return plainStyles()
	}
	return styleSet{
		Title: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		Label: lipgloss.NewStyle().Foreground(dimColor),
		Dim:   lipgloss.NewStyle().Foreground(dimColor),
		Warn:  lipgloss.NewStyle().Foreground(warnColor),
		Error: lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		OK:    lipgloss.NewStyle().Foreground(okColor),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
