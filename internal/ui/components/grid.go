package components

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
)

// GridView is a grid bound to its SSE endpoint.
type GridView struct {
	// ID is the element id patched by the endpoint.
	ID string
	// Endpoint answers sort and page requests, e.g. /clusters/grid.
	Endpoint string
	Grid     *grid.Grid[templ.Component]
}

// GridURL appends non-empty query values to endpoint, which may already
// carry a query.
func GridURL(endpoint string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + querySep(endpoint) + q.Encode()
}

func querySep(endpoint string) string {
	if strings.Contains(endpoint, "?") {
		return "&"
	}
	return "?"
}

// GridSignals is the data-signals value seeding the grid's client state.
func GridSignals(s grid.State) string {
	b, _ := json.Marshal(map[string]grid.State{"grid": s})
	return string(b)
}

// LiveStream is the base path of the shared update stream.
const LiveStream = "/updates"

// LiveURL is the update stream of a page showing a grid of resource served
// by gridEndpoint. An empty resource subscribes to the dashboard stream.
func LiveURL(resource, gridEndpoint string) string {
	if resource == "" {
		return LiveStream
	}
	return LiveStream + "?" + url.Values{"resource": {resource}, "grid": {gridEndpoint}}.Encode()
}

// RefreshID is the id of the hidden element that re-requests grid id.
func RefreshID(id string) string {
	return id + "-refresh"
}

// GridPanel wraps DataGrid with the element that owns the grid signals and
// an empty refresh slot for GridRefresh.
func GridPanel(v GridView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("section", "class", "grid-panel", "data-signals", GridSignals(v.Grid.State()))
		m.child(DataGrid(v))
		m.open("div", "id", RefreshID(v.ID), "hidden", "hidden").close("div")
		m.close("section")
		return m.err
	})
}

// GridRefresh replaces the refresh slot of grid id. Its data-init runs when
// it lands, so the browser asks endpoint for fresh rows with its current grid
// signals. seq changes the expression so repeated refreshes re-run it.
func GridRefresh(id, endpoint string, seq int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("div",
			"id", RefreshID(id),
			"hidden", "hidden",
			"data-init", "@get('"+GridURL(endpoint, "refresh", strconv.Itoa(seq))+"')",
		).close("div")
		return m.err
	})
}

// DataGrid renders the page-size selector, page input, headers and the
// visible rows of v.Grid.
func DataGrid(v GridView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		g := v.Grid
		m := newMarkup(ctx, w)
		m.open("div", "id", v.ID, "class", "data-grid")

		m.open("div", "class", "grid-controls")
		m.open("label").text("Rows per page ")
		m.open("select", "data-bind", "grid.pageSize", "data-on:change", "@get('"+v.Endpoint+"')")
		for _, size := range grid.PageSizes {
			s := strconv.Itoa(size)
			m.elem("option", s, "value", s, "selected", boolAttr(size == g.PageSize(), "selected"))
		}
		m.close("select").close("label")

		total := strconv.Itoa(g.TotalPages())
		m.open("label").text("Page ")
		m.open("input",
			"type", "number",
			"name", "page",
			"min", "1",
			"max", total,
			"value", strconv.Itoa(g.Page()),
			"data-on:change", "@get('"+v.Endpoint+querySep(v.Endpoint)+"page=' + el.value)",
		)
		m.text(" of " + total).close("label")
		m.close("div")

		m.open("table").open("thead").open("tr")
		for _, h := range g.Headers() {
			if !g.Sortable(h) {
				m.elem("th", h)
				continue
			}
			m.open("th",
				"class", "sortable",
				"style", "cursor: pointer",
				"data-on:click", "@get('"+GridURL(v.Endpoint, "sort", h)+"')",
			)
			m.text(h)
			if glyph := g.Indicator(h); glyph != "" {
				m.raw(" ").elem("span", glyph, "class", "sort-indicator")
			}
			m.close("th")
		}
		m.close("tr").close("thead")

		m.open("tbody")
		visible := g.Visible()
		if len(visible) == 0 {
			m.open("tr").elem("td", "No entries.", "colspan", strconv.Itoa(len(g.Headers())), "class", "empty").close("tr")
		}
		for _, row := range visible {
			m.open("tr")
			for _, cell := range row {
				m.open("td", "class", cell.Class).child(cell.Content).close("td")
			}
			m.close("tr")
		}
		m.close("tbody").close("table")

		m.elem("p", g.Summary(), "class", "grid-footer")
		m.close("div")
		return m.err
	})
}

// FieldContent renders a table field as a cell: action links, a link, or text.
func FieldContent(f tables.Field) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		switch {
		case len(f.Links) > 0:
			for i, l := range f.Links {
				if i > 0 {
					m.raw(" ")
				}
				m.elem("a", l.Label, "href", l.Href, "class", "action")
			}
		case f.Href != "":
			m.elem("a", f.Text, "href", f.Href)
		default:
			m.text(f.Text)
		}
		return m.err
	})
}
