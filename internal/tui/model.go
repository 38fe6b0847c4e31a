// Package tui is the interactive terminal grid behind `opsconsole browse`.
package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/opscenter-labs/opsconsole/internal/cli/output"
	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
)

// maxColumnWidth caps a column so wide values don't push others off screen.
const maxColumnWidth = 48

// Loader fetches the dataset to browse.
type Loader func(ctx context.Context) (tables.Dataset, error)

// loadedMsg carries the result of a Loader call.
type loadedMsg struct {
	ds  tables.Dataset
	err error
}

// Model is the bubbletea model of the grid browser. It owns one grid and
// forwards every key to the grid's state machine.
type Model struct {
	title  string
	load   Loader
	ctx    context.Context
	locale language.Tag
	state  grid.State

	grid    *grid.Grid[string]
	focus   int
	err     error
	loading bool

	width  int
	height int

	keys   keyMap
	styles *output.Styles
}

// Option configures a Model.
type Option func(*Model)

// WithLocale sets the collation locale.
func WithLocale(tag language.Tag) Option {
	return func(m *Model) { m.locale = tag }
}

// WithState sets the initial sort and pagination state.
func WithState(s grid.State) Option {
	return func(m *Model) { m.state = s }
}

// New returns a model that loads its rows with load when started.
func New(ctx context.Context, title string, load Loader, opts ...Option) Model {
	m := Model{
		title:   title,
		load:    load,
		ctx:     ctx,
		locale:  language.English,
		state:   grid.DefaultState(),
		loading: true,
		keys:    defaultKeyMap(),
		styles:  output.NewStyles(nil),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) fetch() tea.Cmd {
	load, ctx := m.load, m.ctx
	return func() tea.Msg {
		ds, err := load(ctx)
		return loadedMsg{ds: ds, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.apply(msg.ds)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// apply installs a freshly loaded dataset, keeping the current state.
func (m *Model) apply(ds tables.Dataset) {
	ds = ds.WithoutActions()
	if m.grid != nil {
		m.state = m.grid.State()
	}
	g, err := grid.New(ds.Headers, tables.Cells(ds, tables.PlainText), grid.WithLocale(m.locale))
	if err != nil {
		m.err = err
		return
	}
	g.Restore(m.state)
	m.grid = g
	m.focus = min(m.focus, max(len(ds.Headers)-1, 0))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Reload) && !m.loading {
		m.loading = true
		return m, m.fetch()
	}
	if m.grid == nil || len(m.grid.Headers()) == 0 {
		return m, nil
	}

	headers := m.grid.Headers()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.focus = max(m.focus-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.focus = min(m.focus+1, len(headers)-1)
	case key.Matches(msg, m.keys.Sort):
		m.grid.ClickHeader(headers[m.focus])
	case key.Matches(msg, m.keys.NextPage):
		m.grid.SetPage(m.grid.Page() + 1)
	case key.Matches(msg, m.keys.PrevPage):
		m.grid.SetPage(m.grid.Page() - 1)
	case key.Matches(msg, m.keys.Bigger):
		m.grid.SetPageSize(cyclePageSize(m.grid.PageSize(), 1))
	case key.Matches(msg, m.keys.Smaller):
		m.grid.SetPageSize(cyclePageSize(m.grid.PageSize(), -1))
	}
	return m, nil
}

// cyclePageSize steps through grid.PageSizes, wrapping at both ends.
func cyclePageSize(current, step int) int {
	i := slices.Index(grid.PageSizes, current)
	if i < 0 {
		return grid.DefaultPageSize
	}
	n := len(grid.PageSizes)
	return grid.PageSizes[((i+step)%n+n)%n]
}

// Grid returns the grid being browsed, nil until the first load succeeds.
func (m Model) Grid() *grid.Grid[string] { return m.grid }

// Focus returns the index of the focused header.
func (m Model) Focus() int { return m.focus }

// Err returns the last load error.
func (m Model) Err() error { return m.err }

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(m.title))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Unable to load data: " + m.err.Error()))
		b.WriteString("\n")
	case m.grid == nil:
		b.WriteString(m.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.table().View())
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render(m.grid.Summary()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Muted.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// columnLabel decorates a header with its sort indicator and focus marker.
func (m Model) columnLabel(i int, h string) string {
	label := h
	if ind := m.grid.Indicator(h); ind != "" {
		label += " " + ind
	}
	if i == m.focus {
		label = "[" + label + "]"
	}
	return label
}

func (m Model) table() table.Model {
	headers := m.grid.Headers()
	visible := m.grid.Visible()

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		label := m.columnLabel(i, h)
		width := lipgloss.Width(label)
		for _, row := range visible {
			width = max(width, lipgloss.Width(row[i].Content))
		}
		cols[i] = table.Column{Title: label, Width: min(width, maxColumnWidth)}
	}

	rows := make([]table.Row, len(visible))
	for i, r := range visible {
		row := make(table.Row, len(r))
		for j, c := range r {
			row[j] = c.Content
		}
		rows[i] = row
	}

	height := len(rows) + 1
	if m.height > 0 {
		// title, blank line, footer and help
		height = min(height, max(m.height-5, 3))
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}

// Run starts the browser full screen and blocks until the user quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
