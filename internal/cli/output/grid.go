package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/opscenter-labs/opsconsole/internal/grid"
)

// GridPage is the structured form of one grid page, used by the json and
// yaml modes.
type GridPage struct {
	Title      string              `json:"title" yaml:"title"`
	Headers    []string            `json:"headers" yaml:"headers"`
	Rows       []map[string]string `json:"rows" yaml:"rows"`
	Sort       *GridSort           `json:"sort,omitempty" yaml:"sort,omitempty"`
	Page       int                 `json:"page" yaml:"page"`
	PageSize   int                 `json:"page_size" yaml:"page_size"`
	TotalPages int                 `json:"total_pages" yaml:"total_pages"`
	TotalRows  int                 `json:"total_rows" yaml:"total_rows"`
}

// GridSort is the active sort column.
type GridSort struct {
	Column    string         `json:"column" yaml:"column"`
	Direction grid.Direction `json:"direction" yaml:"direction"`
}

// NewGridPage captures the visible page of g.
func NewGridPage(title string, g *grid.Grid[string]) GridPage {
	headers := g.Headers()
	state := g.State()

	p := GridPage{
		Title:      title,
		Headers:    headers,
		Rows:       make([]map[string]string, 0, len(g.Visible())),
		Page:       state.Page,
		PageSize:   state.PageSize,
		TotalPages: g.TotalPages(),
		TotalRows:  g.RowCount(),
	}
	if state.Column != "" {
		p.Sort = &GridSort{Column: state.Column, Direction: state.Direction}
	}
	for _, row := range g.Visible() {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			m[h] = row[i].Content
		}
		p.Rows = append(p.Rows, m)
	}
	return p
}

// headerLabel appends the sort indicator to the active column.
func headerLabel(g *grid.Grid[string], h string) string {
	if ind := g.Indicator(h); ind != "" {
		return h + " " + ind
	}
	return h
}

func gridTable(g *grid.Grid[string]) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	// Keep labels as-is: --sort takes them verbatim.
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, 0, len(g.Headers()))
	for _, h := range g.Headers() {
		header = append(header, headerLabel(g, h))
	}
	t.AppendHeader(header)

	for _, row := range g.Visible() {
		r := make(table.Row, len(row))
		for i, c := range row {
			r[i] = c.Content
		}
		t.AppendRow(r)
	}
	return t
}

// Grid prints the visible page of g followed by its footer.
func (r *Renderer) Grid(title string, g *grid.Grid[string]) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(NewGridPage(title, g))
	case ModeYAML:
		return r.YAML(NewGridPage(title, g))
	case ModeMarkdown:
		r.Println(FormatHeader(1, title))
		r.Println("")
		if g.RowCount() > 0 {
			r.Println(gridTable(g).RenderMarkdown())
			r.Println("")
		}
		r.Println(g.Summary())
		return nil
	default:
		r.Header(1, title)
		if g.RowCount() > 0 {
			t := gridTable(g)
			if r.isTTY {
				t.Style().Color.Header = text.Colors{text.Bold}
			}
			r.Println(t.Render())
		} else {
			r.Muted("(no rows)")
		}
		r.Println(r.styles.Footer.Render(g.Summary()))
		return nil
	}
}

// SortHint describes an ignored --sort value.
func SortHint(column string, headers []string) string {
	return fmt.Sprintf("column %q cannot be sorted (columns: %v)", column, headers)
}
