package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextControl key.Binding
	PrevControl key.Binding
	PrevOption  key.Binding
	NextOption  key.Binding
	Activate    key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextControl: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next control"),
		),
		PrevControl: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev control"),
		),
		PrevOption: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev option"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next option"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "more results"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NextControl, k.PrevOption, k.NextOption, k.Activate, k.ScrollDown, k.Quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextControl, k.PrevControl},
		{k.PrevOption, k.NextOption, k.Activate},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.Quit},
	}
}
