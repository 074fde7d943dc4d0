package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
	"github.com/niksmo/visual-catalog/internal/core/render"
)

// OptionsLoadedMsg carries the options of one filter field.
type OptionsLoadedMsg struct {
	Field   string
	Options []domain.FilterOption
}

// FilterModel is a select-style control over the options of one field.
// Cursor 0 is the empty "--" entry.
type FilterModel struct {
	ctx     context.Context
	field   domain.FilterField
	loader  port.OptionsLoader
	options []domain.FilterOption
	cursor  int
	focused bool
	keys    keyMap
	styles  Styles
}

func NewFilterModel(
	ctx context.Context, field domain.FilterField, loader port.OptionsLoader, styles Styles,
) FilterModel {
	return FilterModel{
		ctx:    ctx,
		field:  field,
		loader: loader,
		keys:   defaultKeyMap(),
		styles: styles,
	}
}

// Init loads the options once.
func (m FilterModel) Init() tea.Cmd {
	ctx, loader, field := m.ctx, m.loader, m.field.Field
	return func() tea.Msg {
		return OptionsLoadedMsg{
			Field:   field,
			Options: loader.LoadOptions(ctx, field),
		}
	}
}

// Update handles option loading and, while focused, selection keys.
// Every selection change emits a domain.FilterChanged.
func (m FilterModel) Update(msg tea.Msg) (FilterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case OptionsLoadedMsg:
		if msg.Field == m.field.Field {
			m.options = msg.Options
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		n := len(m.options) + 1
		switch {
		case key.Matches(msg, m.keys.PrevOption):
			m.cursor = (m.cursor - 1 + n) % n
		case key.Matches(msg, m.keys.NextOption):
			m.cursor = (m.cursor + 1) % n
		default:
			return m, nil
		}
		if n == 1 {
			return m, nil
		}
		return m, m.emit()
	}
	return m, nil
}

func (m FilterModel) emit() tea.Cmd {
	e := domain.FilterChanged{Field: m.field.Field, Value: m.Selected()}
	return func() tea.Msg { return e }
}

// Selected returns the selected option id, empty when unconstrained.
func (m FilterModel) Selected() string {
	if m.cursor == 0 || m.cursor > len(m.options) {
		return ""
	}
	return m.options[m.cursor-1].ID
}

func (m FilterModel) Field() string {
	return m.field.Field
}

func (m FilterModel) Control() render.FilterControl {
	return render.FilterControl{
		Field:    m.field.Field,
		Title:    m.field.Title,
		Options:  m.options,
		Selected: m.Selected(),
	}
}

func (m *FilterModel) Focus() {
	m.focused = true
}

func (m *FilterModel) Blur() {
	m.focused = false
}

func (m FilterModel) Focused() bool {
	return m.focused
}

// View draws the control from its render description.
func (m FilterModel) View(props render.FilterProps) string {
	label := props.Options[0].Label
	for _, o := range props.Options {
		if o.Value == props.Selected {
			label = o.Label
			break
		}
	}

	box := m.styles.Option
	if m.focused {
		box = m.styles.Focused
	}

	var sb strings.Builder
	sb.WriteString("‹ ")
	sb.WriteString(label)
	sb.WriteString(" ›")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Label.Render(props.Title),
		box.Render(sb.String()),
	)
}
