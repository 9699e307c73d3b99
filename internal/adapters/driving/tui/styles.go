package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the pre-configured lipgloss styles for the viewer.
type Styles struct {
	Title  lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the default viewer styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F38BA8")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Italic(true),
	}
}
