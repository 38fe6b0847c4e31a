package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

// GridID is the element id of a page's data grid.
const GridID = "data-grid"

// Int decodes a JSON number or numeric string. Bound inputs such as the
// page-size select may send either. Values beyond the int32 range saturate.
type Int int

func (i *Int) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*i = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		var f float64
		if ferr := json.Unmarshal(b, &f); ferr != nil {
			return fmt.Errorf("invalid integer %q", b)
		}
		n = int(min(max(f, math.MinInt32), math.MaxInt32))
	}
	*i = Int(n)
	return nil
}

// GridSignals is the client state posted by grid interactions.
type GridSignals struct {
	Grid struct {
		Column    string         `json:"column"`
		Direction grid.Direction `json:"direction"`
		Page      Int            `json:"page"`
		PageSize  Int            `json:"pageSize"`
	} `json:"grid"`
}

// State converts the signals into a grid state.
func (s GridSignals) State() grid.State {
	return grid.State{
		Column:    s.Grid.Column,
		Direction: s.Grid.Direction,
		Page:      int(s.Grid.Page),
		PageSize:  int(s.Grid.PageSize),
	}
}

// GridSource is everything needed to (re)build one grid.
type GridSource struct {
	Table    tables.Table
	Query    tables.Query
	Endpoint string
}

// BuildGrid loads src and builds a grid with the configured locale and page size.
func (d *Deps) BuildGrid(ctx context.Context, src GridSource) (*grid.Grid[templ.Component], error) {
	ds, err := src.Table.Load(ctx, d.Client, src.Query)
	if err != nil {
		return nil, err
	}
	g, err := grid.New(ds.Headers, tables.Cells(ds, components.FieldContent), grid.WithLocale(d.Locale))
	if err != nil {
		return nil, fmt.Errorf("build %s grid: %w", src.Table.Name, err)
	}
	if d.PageSize != 0 {
		g.SetPageSize(d.PageSize)
	}
	return g, nil
}

// GridContent renders the grid panel for a full page, or an error panel if
// the data failed to load. The returned error is the load error, if any.
func (d *Deps) GridContent(ctx context.Context, src GridSource) (templ.Component, error) {
	g, err := d.BuildGrid(ctx, src)
	if err != nil {
		d.Log().Error("failed to load grid", "table", src.Table.Name, "error", err)
		return components.ErrorPanel(GridID, err.Error()), err
	}
	return components.GridPanel(components.GridView{ID: GridID, Endpoint: src.Endpoint, Grid: g}), nil
}

// GridSSE answers a grid interaction: it restores the client's state onto
// freshly loaded rows, applies ?sort=<header> or ?page=<n>, and patches the
// grid and the normalised signals back.
func (d *Deps) GridSSE(w http.ResponseWriter, r *http.Request, src GridSource) {
	var signals GridSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read grid signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	g, err := d.BuildGrid(r.Context(), src)
	if err != nil {
		d.Log().Error("failed to load grid", "table", src.Table.Name, "error", err)
		_ = sse.PatchElementTempl(components.ErrorPanel(GridID, err.Error()))
		return
	}

	g.Restore(signals.State())

	q := r.URL.Query()
	if header := q.Get("sort"); header != "" {
		g.ClickHeader(header)
	}
	if page := q.Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil {
			g.SetPage(n)
		}
	}

	if err := sse.PatchElementTempl(components.DataGrid(components.GridView{ID: GridID, Endpoint: src.Endpoint, Grid: g})); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(map[string]grid.State{"grid": g.State()}); err != nil {
		_ = sse.ConsoleError(err)
	}
}
