package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/robbie"
)

// Styles maps a Theme to lipgloss styles for console output.
type Styles struct {
	Assistant lipgloss.Style
	Prompt    lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Spinner   lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t robbie.Theme) Styles {
	return Styles{
		Assistant: lipgloss.NewStyle().Foreground(ansiColor(t.Assistant)).Bold(true),
		Prompt:    lipgloss.NewStyle().Foreground(ansiColor(t.Prompt)).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:     lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Spinner:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
