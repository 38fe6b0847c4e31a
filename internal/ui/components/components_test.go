package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func sampleGrid(t *testing.T, n int) *grid.Grid[templ.Component] {
	t.Helper()
	ds := tables.Dataset{Headers: []string{"Name", "Size", tables.ActionsHeader}}
	for i := range n {
		name := string(rune('a' + i%26))
		ds.Rows = append(ds.Rows, []tables.Field{
			{Text: name, Href: "/x/" + name, Key: grid.Text(name)},
			{Text: "1", Key: grid.Number(float64(i)), Class: "num"},
			{Links: []tables.Link{{Label: "Delete", Href: "/x/" + name + "/delete"}}},
		})
	}
	g, err := grid.New(ds.Headers, tables.Cells(ds, FieldContent))
	require.NoError(t, err)
	return g
}

func TestDataGrid_HeadersAndRows(t *testing.T) {
	g := sampleGrid(t, 45)
	require.True(t, g.ClickHeader("Size"))

	out := render(t, DataGrid(GridView{ID: "grid", Endpoint: "/x/grid", Grid: g}))
	doc := parse(t, out)

	ths := findAll(doc, "th")
	require.Len(t, ths, 3)

	click, ok := attr(ths[0], "data-on:click")
	require.True(t, ok, "sortable header is clickable")
	assert.Equal(t, "@get('/x/grid?sort=Name')", click)
	assert.Contains(t, textOf(ths[1]), "▲")

	_, ok = attr(ths[2], "data-on:click")
	assert.False(t, ok, "action column is not clickable")
	assert.NotContains(t, textOf(ths[0]), "▲")

	rows := findAll(findAll(doc, "tbody")[0], "tr")
	assert.Len(t, rows, 20)

	assert.Contains(t, out, "page 1 of 3 (45 rows)")
}

func TestDataGrid_PageControls(t *testing.T) {
	g := sampleGrid(t, 45)
	g.SetPageSize(50)

	doc := parse(t, render(t, DataGrid(GridView{ID: "grid", Endpoint: "/inventory/instances/grid?cluster=prod", Grid: g})))

	inputs := findAll(doc, "input")
	require.Len(t, inputs, 1)
	maxPage, _ := attr(inputs[0], "max")
	assert.Equal(t, "1", maxPage)
	change, _ := attr(inputs[0], "data-on:change")
	assert.Equal(t, "@get('/inventory/instances/grid?cluster=prod&page=' + el.value)", change)

	var selected []string
	for _, opt := range findAll(doc, "option") {
		if _, ok := attr(opt, "selected"); ok {
			selected = append(selected, textOf(opt))
		}
	}
	assert.Equal(t, []string{"50"}, selected)
}

func TestDataGrid_Empty(t *testing.T) {
	g := sampleGrid(t, 0)
	out := render(t, DataGrid(GridView{ID: "grid", Endpoint: "/x/grid", Grid: g}))

	assert.Contains(t, out, "No entries.")
	assert.Contains(t, out, "page 1 of 1 (0 rows)")
	assert.NotContains(t, out, "data-on:click")
}

func TestGridPanel_Signals(t *testing.T) {
	g := sampleGrid(t, 3)
	g.ClickHeader("Name")
	g.ClickHeader("Name")

	doc := parse(t, render(t, GridPanel(GridView{ID: "grid", Endpoint: "/x/grid", Grid: g})))
	sections := findAll(doc, "section")
	require.Len(t, sections, 1)
	signals, _ := attr(sections[0], "data-signals")
	assert.JSONEq(t, `{"grid":{"column":"Name","direction":"desc","page":1,"pageSize":20}}`, signals)
}

func TestGridPanel_RefreshSlot(t *testing.T) {
	doc := parse(t, render(t, GridPanel(GridView{ID: "grid", Endpoint: "/x/grid", Grid: sampleGrid(t, 3)})))

	var slot bool
	for _, div := range findAll(doc, "div") {
		if id, _ := attr(div, "id"); id == "grid-refresh" {
			slot = true
			_, hasInit := attr(div, "data-init")
			assert.False(t, hasInit, "the slot stays inert until a refresh arrives")
		}
	}
	assert.True(t, slot)
}

func TestGridRefresh(t *testing.T) {
	doc := parse(t, render(t, GridRefresh("grid", "/servers/grid?cluster=edge", 3)))

	divs := findAll(doc, "div")
	require.Len(t, divs, 1)
	id, _ := attr(divs[0], "id")
	assert.Equal(t, "grid-refresh", id)
	init, _ := attr(divs[0], "data-init")
	assert.Equal(t, "@get('/servers/grid?cluster=edge&refresh=3')", init)
}

func TestLiveURL(t *testing.T) {
	assert.Equal(t, "/updates", LiveURL("", ""))
	assert.Equal(t, "/updates?grid=%2Fservers%2Fgrid%3Fcluster%3Dedge&resource=servers", LiveURL("servers", "/servers/grid?cluster=edge"))
}

func TestGridURL(t *testing.T) {
	assert.Equal(t, "/x/grid", GridURL("/x/grid"))
	assert.Equal(t, "/x/grid?sort=Last+updated", GridURL("/x/grid", "sort", "Last updated"))
	assert.Equal(t, "/x/grid?a=1&page=2", GridURL("/x/grid?a=1", "page", "2"))
	assert.Equal(t, "/x/grid", GridURL("/x/grid", "cluster", ""))
}

func TestFieldContent(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt;", render(t, FieldContent(tables.Field{Text: "a <b>"})))
	assert.Equal(t, `<a href="/c/x">x</a>`, render(t, FieldContent(tables.Field{Text: "x", Href: "/c/x"})))
	out := render(t, FieldContent(tables.Field{Links: []tables.Link{{Label: "Edit", Href: "/e"}, {Label: "Delete", Href: "/d"}}}))
	assert.Equal(t, `<a href="/e" class="action">Edit</a> <a href="/d" class="action">Delete</a>`, out)
}

func TestLayout(t *testing.T) {
	out := render(t, Layout(Page{Title: "Clusters", CurrentPath: "/clusters", Flash: &Flash{Kind: FlashSuccess, Message: "Cluster created"}}, Text("body")))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Clusters - Operations Center</title>")
	assert.Contains(t, out, `href="/static/app.css"`)
	assert.Contains(t, out, "Cluster created")
	assert.NotContains(t, out, "data-init")

	doc := parse(t, out)
	var active []string
	for _, a := range findAll(doc, "a") {
		if c, _ := attr(a, "class"); c == "active" {
			href, _ := attr(a, "href")
			active = append(active, href)
		}
	}
	assert.Equal(t, []string{"/clusters"}, active)

	live := render(t, Layout(Page{Title: "Dashboard", CurrentPath: "/", Live: LiveURL("", "")}, nil))
	assert.Contains(t, live, `data-init="@get(&#39;/updates&#39;)"`)

	static := render(t, Layout(Page{Title: "Settings", CurrentPath: "/settings"}, nil))
	assert.NotContains(t, static, "data-init")
}

func TestFormView(t *testing.T) {
	f := Form{
		ID:     "cluster-form",
		Action: "/clusters/new",
		Error:  "backend said no",
		Fields: []FormField{
			{Name: "name", Label: "Name", Value: "prod", Error: "already exists", Required: true},
			{Name: "public", Label: "Public", Type: InputCheckbox, Checked: true},
			{Name: "type", Label: "Type", Type: InputSelect, Options: []string{"incus", "migration-manager"}, Value: "incus"},
			{Name: "config", Label: "Config", Type: InputTextarea, Value: "a: 1"},
		},
		Cancel: "/clusters",
	}
	assert.True(t, f.HasErrors())

	doc := parse(t, render(t, FormView(f)))
	forms := findAll(doc, "form")
	require.Len(t, forms, 1)

	submit, _ := attr(forms[0], "data-on:submit")
	assert.Equal(t, "@post('/clusters/new')", submit)
	signals, _ := attr(forms[0], "data-signals")
	assert.JSONEq(t, `{"form":{"name":"prod","public":true,"type":"incus","config":"a: 1"}}`, signals)

	inputs := findAll(doc, "input")
	require.Len(t, inputs, 2)
	bind, _ := attr(inputs[0], "data-bind")
	assert.Equal(t, "form.name", bind)
	_, required := attr(inputs[0], "required")
	assert.True(t, required)
	_, checked := attr(inputs[1], "checked")
	assert.True(t, checked)

	out := textOf(doc)
	assert.Contains(t, out, "already exists")
	assert.Contains(t, out, "backend said no")

	assert.False(t, Form{Fields: []FormField{{Name: "x"}}}.HasErrors())
}

func TestStatCards(t *testing.T) {
	out := render(t, StatCards([]Stat{
		{Label: "Clusters", Href: "/clusters", Count: 3},
		{Label: "Servers", Href: "/servers", Error: "timeout"},
	}))
	assert.Contains(t, out, `id="dashboard"`)
	assert.Contains(t, out, ">3<")
	assert.Contains(t, out, "unavailable")
}

func TestErrorPanelAndFlash(t *testing.T) {
	assert.Contains(t, render(t, ErrorPanel("grid", "list clusters: boom")), `id="grid"`)
	assert.Empty(t, render(t, FlashBanner(nil)))
	assert.Contains(t, render(t, FlashBanner(&Flash{Kind: FlashError, Message: "x"})), "flash-error")
}

func TestFilterForm(t *testing.T) {
	doc := parse(t, render(t, FilterForm("/inventory/instances", []Filter{
		{Name: "cluster", Label: "Cluster", Value: "prod"},
		{Name: "project", Label: "Project"},
	})))

	forms := findAll(doc, "form")
	require.Len(t, forms, 1)
	method, _ := attr(forms[0], "method")
	assert.Equal(t, "get", method)

	inputs := findAll(doc, "input")
	require.Len(t, inputs, 2)
	value, ok := attr(inputs[0], "value")
	assert.True(t, ok)
	assert.Equal(t, "prod", value)
	_, ok = attr(inputs[1], "value")
	assert.False(t, ok, "empty values are omitted")
}
