// Package tui draws the catalog in the terminal with bubbletea components:
// one FilterModel per filter field, a PagerModel and the root Model that
// owns the catalog.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary     = lipgloss.Color("#101F38")
	colorAccent      = lipgloss.Color("#8BC34A")
	colorMuted       = lipgloss.Color("#6B7280")
	colorBorder      = lipgloss.Color("#2a3850")
	colorDestructive = lipgloss.Color("#e53935")
	colorWarning     = lipgloss.Color("#FFC107")
	colorInfo        = lipgloss.Color("#2196F3")
)

type Styles struct {
	Header       lipgloss.Style
	Label        lipgloss.Style
	Option       lipgloss.Style
	Focused      lipgloss.Style
	Count        lipgloss.Style
	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	Muted        lipgloss.Style
	Active       lipgloss.Style
	Inactive     lipgloss.Style
	Discontinued lipgloss.Style
	Piece        lipgloss.Style
	Button       lipgloss.Style
	ButtonOff    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),
		Label: lipgloss.NewStyle().
			Bold(true),
		Option: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder),
		Focused: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorAccent),
		Count: lipgloss.NewStyle().
			Foreground(colorInfo).
			MarginTop(1),
		Card: lipgloss.NewStyle().
			PaddingLeft(1).
			MarginBottom(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorBorder),
		CardTitle: lipgloss.NewStyle().
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
		Active: lipgloss.NewStyle().
			Foreground(colorAccent),
		Inactive: lipgloss.NewStyle().
			Foreground(colorDestructive),
		Discontinued: lipgloss.NewStyle().
			Foreground(colorWarning),
		Piece: lipgloss.NewStyle().
			Foreground(colorInfo),
		Button: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorPrimary),
		ButtonOff: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted),
	}
}
