package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#3A7BD5")
	muted   = lipgloss.Color("#7A8496")
	success = lipgloss.Color("#27AE60")
	danger  = lipgloss.Color("#E53935")
	warning = lipgloss.Color("#FFC107")
)

// Styles groups the lipgloss styles used by the quiz screens.
type Styles struct {
	Title  lipgloss.Style
	Kind   lipgloss.Style
	Prompt lipgloss.Style
	Card   lipgloss.Style
	Clock  lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Notice lipgloss.Style
	Help   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Kind:   lipgloss.NewStyle().Bold(true).Foreground(muted),
		Prompt: lipgloss.NewStyle().PaddingLeft(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Clock:  lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(muted),
		Good:   lipgloss.NewStyle().Foreground(success),
		Bad:    lipgloss.NewStyle().Foreground(danger),
		Notice: lipgloss.NewStyle().Foreground(warning),
		Help:   lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
