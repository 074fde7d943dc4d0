package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
	"github.com/niksmo/visual-catalog/internal/core/render"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	// header, filters, count, pager and help lines
	chromeHeight = 12
)

// ProductsFetchedMsg is the continuation of a products request.
type ProductsFetchedMsg struct {
	Query domain.ProductsQuery
	Page  domain.ProductsPage
	Err   error
}

// Model is the catalog root. It owns the catalog driver and routes every
// child intent through it.
type Model struct {
	ctx      context.Context
	catalog  port.CatalogDriver
	recorder port.InteractionsRecorder

	filters  []FilterModel
	pager    PagerModel
	focus    int
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	styles   Styles

	view   render.View
	width  int
	height int
}

func NewModel(
	ctx context.Context,
	catalog port.CatalogDriver,
	loader port.OptionsLoader,
	recorder port.InteractionsRecorder,
	fields []domain.FilterField,
) Model {
	styles := DefaultStyles()

	filters := make([]FilterModel, len(fields))
	for i, f := range fields {
		filters[i] = NewFilterModel(ctx, f, loader, styles)
	}

	m := Model{
		ctx:      ctx,
		catalog:  catalog,
		recorder: recorder,
		filters:  filters,
		pager:    NewPagerModel(styles),
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		help:     help.New(),
		keys:     defaultKeyMap(),
		styles:   styles,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.setFocus(0)
	m.refresh()
	return m
}

// Init loads the options of every filter and the unfiltered first page.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.filters)+1)
	for _, f := range m.filters {
		cmds = append(cmds, f.Init())
	}

	q := m.catalog.Begin(domain.KindPagination, domain.FirstPage, nil)
	cmds = append(cmds, m.fetch(q))

	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case OptionsLoadedMsg:
		for i := range m.filters {
			m.filters[i], _ = m.filters[i].Update(msg)
		}
		m.refresh()
		return m, nil

	case domain.FilterChanged:
		cmd := m.dispatch(msg)
		return m, cmd

	case domain.PageRequested:
		cmd := m.dispatch(msg)
		return m, cmd

	case ProductsFetchedMsg:
		if msg.Err != nil {
			m.catalog.Fail(msg.Query, msg.Err)
		} else {
			m.catalog.Apply(msg.Query, msg.Page)
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextControl):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevControl):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus < len(m.filters) {
		m.filters[m.focus], cmd = m.filters[m.focus].Update(msg)
		m.refresh()
		return m, cmd
	}
	m.pager, cmd = m.pager.Update(msg)
	return m, cmd
}

// dispatch starts the fetch for intent and records it.
func (m *Model) dispatch(intent domain.Intent) tea.Cmd {
	q := m.catalog.Begin(intent.Kind(), intent.Page(), intent.Entry())
	m.refresh()
	return tea.Batch(m.fetch(q), m.record(intent, q.Filters))
}

func (m Model) fetch(q domain.ProductsQuery) tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		p, err := catalog.Fetch(ctx, q)
		return ProductsFetchedMsg{Query: q, Page: p, Err: err}
	}
}

func (m Model) record(intent domain.Intent, filters domain.FilterSet) tea.Cmd {
	if m.recorder == nil {
		return nil
	}
	ctx, recorder := m.ctx, m.recorder
	return func() tea.Msg {
		recorder.Record(ctx, intent, filters)
		return nil
	}
}

// refresh re-renders the view description from the catalog state.
func (m *Model) refresh() {
	controls := make([]render.FilterControl, len(m.filters))
	for i, f := range m.filters {
		controls[i] = f.Control()
	}

	m.view = render.Render(m.catalog.State(), controls)
	m.pager.SetProps(m.view.Pager)
	m.viewport.SetContent(m.productsView())

	if m.view.Pager.Hidden && m.focus == len(m.filters) {
		m.setFocus(0)
	}
}

func (m *Model) moveFocus(delta int) {
	n := len(m.filters) + 1
	next := (m.focus + delta + n) % n
	if next == len(m.filters) && m.view.Pager.Hidden {
		next = (next + delta + n) % n
	}
	m.setFocus(next)
}

func (m *Model) setFocus(i int) {
	for j := range m.filters {
		m.filters[j].Blur()
	}
	m.pager.Blur()

	if i > len(m.filters) {
		i = 0
	}
	m.focus = i
	if i < len(m.filters) {
		m.filters[i].Focus()
		return
	}
	m.pager.Focus()
}

func (m *Model) setSize(w, h int) {
	m.width = w
	m.height = h
	m.help.Width = w
	m.viewport.Width = w
	m.viewport.Height = max(h-chromeHeight, 1)
	m.viewport.SetContent(m.productsView())
}

// Render returns the current view description.
func (m Model) Render() render.View {
	return m.view
}

func (m Model) Focus() int {
	return m.focus
}

func (m Model) View() string {
	filters := make([]string, 0, len(m.filters)*2)
	for i, f := range m.filters {
		if i > 0 {
			filters = append(filters, "  ")
		}
		filters = append(filters, f.View(m.view.Filters[i]))
	}

	sections := []string{
		m.styles.Header.Render("Filter by"),
		lipgloss.JoinHorizontal(lipgloss.Top, filters...),
		m.styles.Count.Render(m.view.CountLabel),
		m.viewport.View(),
	}
	if pager := m.pager.View(); pager != "" {
		sections = append(sections, pager)
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) productsView() string {
	cards := make([]string, len(m.view.Products))
	for i, p := range m.view.Products {
		cards[i] = m.productCard(p)
	}
	return strings.Join(cards, "\n")
}

func (m Model) productCard(p render.ProductCard) string {
	var icons []string
	if p.Active {
		icons = append(icons, m.styles.Active.Render("✔ Active"))
	} else {
		icons = append(icons, m.styles.Inactive.Render("✖ Inactive"))
	}
	if p.Discontinued {
		icons = append(icons, m.styles.Discontinued.Render("⚠ Discontinued"))
	}
	if p.Piece {
		icons = append(icons, m.styles.Piece.Render("◆ Piece"))
	}

	lines := []string{
		m.styles.CardTitle.Render(p.Title),
		p.Brand,
		m.styles.Muted.Render(p.SKU),
		p.Category,
	}
	if p.Types != "" {
		lines = append(lines, p.Types)
	}
	lines = append(lines,
		strings.Join(icons, "  "),
		m.styles.Muted.Render(p.Added),
		m.styles.Muted.Render("Edit: "+p.EditURL),
	)

	return m.styles.Card.Render(strings.Join(lines, "\n"))
}
