package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
)

// dataset builds n server rows plus an action column the browser must drop.
func dataset(n int) tables.Dataset {
	ds := tables.Dataset{Headers: []string{"Name", "CPU cores", tables.ActionsHeader}}
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("server-%02d", i)
		ds.Rows = append(ds.Rows, []tables.Field{
			{Text: name, Key: grid.Text(name)},
			{Text: fmt.Sprint(i % 7), Key: grid.Number(float64(i % 7))},
			{Text: "Delete", Links: []tables.Link{{Label: "Delete", Href: "/x"}}},
		})
	}
	return ds
}

func staticLoader(ds tables.Dataset, err error) Loader {
	return func(context.Context) (tables.Dataset, error) { return ds, err }
}

// update sends msg through Update and returns the updated Model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model that has finished its first load.
func loaded(t *testing.T, n int) Model {
	t.Helper()
	m := New(context.Background(), "Servers", staticLoader(dataset(n), nil))
	msg := m.Init()()
	m, _ = update(t, m, msg)
	require.NotNil(t, m.Grid())
	return m
}

func TestInitLoads(t *testing.T) {
	m := New(context.Background(), "Servers", staticLoader(dataset(3), nil))
	assert.Nil(t, m.Grid())
	assert.Contains(t, m.View(), "Loading...")

	m, _ = update(t, m, m.Init()())

	require.NotNil(t, m.Grid())
	assert.Equal(t, []string{"Name", "CPU cores"}, m.Grid().Headers(), "action column dropped")
	assert.Equal(t, 3, m.Grid().RowCount())
}

func TestLoadError(t *testing.T) {
	m := New(context.Background(), "Servers", staticLoader(tables.Dataset{}, errors.New("backend down")))
	m, _ = update(t, m, m.Init()())

	assert.Nil(t, m.Grid())
	assert.EqualError(t, m.Err(), "backend down")
	assert.Contains(t, m.View(), "Unable to load data: backend down")
}

func TestFocusMovesWithinHeaders(t *testing.T) {
	m := loaded(t, 3)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.Focus())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Focus())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Focus(), "stops at the last column")
}

func TestSortKeysDriveStateMachine(t *testing.T) {
	m := loaded(t, 45)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, grid.State{Column: "Name", Direction: grid.Ascending, Page: 1, PageSize: 20}, m.Grid().State())

	m, _ = update(t, m, runes("s"))
	assert.Equal(t, grid.Descending, m.Grid().State().Direction)
	assert.Equal(t, "server-45", m.Grid().Visible()[0][0].Content)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, runes("s"))
	assert.Equal(t, "CPU cores", m.Grid().State().Column)
	assert.Equal(t, grid.Ascending, m.Grid().State().Direction, "a new column starts ascending")
	assert.Equal(t, "0", m.Grid().Visible()[0][1].Content)
}

func TestPagingKeys(t *testing.T) {
	m := loaded(t, 45)

	m, _ = update(t, m, runes("n"))
	assert.Equal(t, 2, m.Grid().Page())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = update(t, m, runes("n"))
	assert.Equal(t, 3, m.Grid().Page(), "snaps at the last page")

	m, _ = update(t, m, runes("p"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	m, _ = update(t, m, runes("p"))
	assert.Equal(t, 1, m.Grid().Page(), "snaps at the first page")
}

func TestPageSizeKeys(t *testing.T) {
	m := loaded(t, 45)
	m, _ = update(t, m, runes("n"))

	m, _ = update(t, m, runes("+"))
	assert.Equal(t, 50, m.Grid().PageSize())
	assert.Equal(t, 1, m.Grid().Page(), "page 2 is out of range with 50 rows a page")

	m, _ = update(t, m, runes("+"))
	assert.Equal(t, 100, m.Grid().PageSize())

	m, _ = update(t, m, runes("+"))
	assert.Equal(t, 20, m.Grid().PageSize(), "wraps around")

	m, _ = update(t, m, runes("-"))
	assert.Equal(t, 100, m.Grid().PageSize())
}

func TestReloadKeepsState(t *testing.T) {
	calls := 0
	load := func(context.Context) (tables.Dataset, error) {
		calls++
		return dataset(45 - calls), nil
	}
	m := New(context.Background(), "Servers", load, WithState(grid.State{Column: "Name", Direction: grid.Descending, Page: 2, PageSize: 20}))
	m, _ = update(t, m, m.Init()())
	assert.Equal(t, 2, m.Grid().Page())

	m, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 2, calls)
	assert.Equal(t, 43, m.Grid().RowCount())
	assert.Equal(t, grid.State{Column: "Name", Direction: grid.Descending, Page: 2, PageSize: 20}, m.Grid().State())
}

func TestQuit(t *testing.T) {
	m := loaded(t, 1)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m := loaded(t, 45)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, runes("s"))

	view := m.View()
	assert.Contains(t, view, "Servers")
	assert.Contains(t, view, "[Name ▲]")
	assert.Contains(t, view, "server-01")
	assert.Contains(t, view, "page 1 of 3 (45 rows)")
	assert.Contains(t, view, "q quit")
}

func TestCyclePageSize(t *testing.T) {
	assert.Equal(t, 50, cyclePageSize(20, 1))
	assert.Equal(t, 100, cyclePageSize(20, -1))
	assert.Equal(t, 20, cyclePageSize(100, 1))
	assert.Equal(t, grid.DefaultPageSize, cyclePageSize(7, 1))
}
