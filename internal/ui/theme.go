package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cloakhq/veil/internal/job"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Border  string
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Panel   lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
	}
}

// PhaseStyle picks the style used to render a poller phase.
func (s Styles) PhaseStyle(phase job.Phase) lipgloss.Style {
	switch phase {
	case job.PhaseSucceeded:
		return s.Success
	case job.PhaseFailed:
		return s.Danger
	case job.PhasePolling:
		return s.Accent
	}
	return s.Muted
}

var themes = []Theme{
	{
		Name:    "Midnight",
		Text:    "#f8f8f2",
		Muted:   "#6272a4",
		Accent:  "#8be9fd",
		Success: "#50fa7b",
		Warning: "#f1fa8c",
		Danger:  "#ff5555",
		Border:  "#44475a",
	},
	{
		Name:    "Paper",
		Text:    "#1a1a1a",
		Muted:   "#767676",
		Accent:  "#005f87",
		Success: "#00875f",
		Warning: "#af8700",
		Danger:  "#d70000",
		Border:  "#bcbcbc",
	},
}

// ThemeByName returns the named theme, defaulting to the first one.
func ThemeByName(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme cycles to the theme after the named one.
func NextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
