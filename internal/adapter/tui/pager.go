package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/render"
)

// PagerModel is the "load more" control. Its page, disabled and hidden
// state all come from the parent.
type PagerModel struct {
	props   render.PagerProps
	focused bool
	keys    keyMap
	styles  Styles
}

func NewPagerModel(styles Styles) PagerModel {
	return PagerModel{
		keys:   defaultKeyMap(),
		styles: styles,
	}
}

func (m *PagerModel) SetProps(props render.PagerProps) {
	m.props = props
}

func (m PagerModel) Props() render.PagerProps {
	return m.props
}

// Update emits domain.PageRequested on activation unless the control is
// disabled or hidden.
func (m PagerModel) Update(msg tea.Msg) (PagerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || !key.Matches(keyMsg, m.keys.Activate) {
		return m, nil
	}
	if m.props.Disabled || m.props.Hidden {
		return m, nil
	}

	e := domain.PageRequested{Next: m.props.NextPage}
	return m, func() tea.Msg { return e }
}

func (m *PagerModel) Focus() {
	m.focused = true
}

func (m *PagerModel) Blur() {
	m.focused = false
}

func (m PagerModel) View() string {
	if m.props.Hidden {
		return ""
	}

	style := m.styles.Button
	if m.props.Disabled {
		style = m.styles.ButtonOff
	}

	label := m.props.Label
	if m.focused {
		label = "› " + label
	}
	return style.Render(label)
}
