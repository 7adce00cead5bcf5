package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Prompt    lipgloss.Style
	Filter    lipgloss.Style
	Selected  lipgloss.Style
	Owner     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Offline   lipgloss.Style
	Loading   lipgloss.Style
	Help      lipgloss.Style
	Highlight lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim:      lipgloss.NewStyle().Faint(true),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Filter:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true),
		Owner:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		Loading:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Help:      lipgloss.NewStyle().Faint(true),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
	}
}
