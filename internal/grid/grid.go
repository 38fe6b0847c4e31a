// Package grid implements the generic data grid shared by every console
// surface: client-side sorting and pagination over pre-rendered cells.
//
// A Grid never interprets cell content. The web console renders templ
// components, the terminal renderers render strings, and both drive the same
// state machine: header clicks cycle (column, ascending) and (column,
// descending), and pagination is recomputed after every state change.
package grid

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// ErrDuplicateHeader is returned when two columns share a label.
	ErrDuplicateHeader = errors.New("duplicate column header")
	// ErrRowShape is returned when a row does not have one cell per header.
	ErrRowShape = errors.New("row length does not match headers")
)

// Cell is one rendered value plus the key it sorts by.
type Cell[T any] struct {
	Content T
	Key     SortKey
	Class   string
}

// Row is one cell per header, in header order.
type Row[T any] []Cell[T]

// Grid holds a dataset and its transient sort and pagination state.
type Grid[T any] struct {
	headers []string
	index   map[string]int
	rows    []Row[T]
	sorted  []Row[T]
	coll    *collate.Collator

	column   string
	dir      Direction
	page     int
	pageSize int
}

// Option configures a Grid.
type Option func(*options)

type options struct {
	locale language.Tag
}

// WithLocale sets the locale used to collate text keys.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = tag }
}

// New validates headers and rows and returns a grid on page 1 with the
// default page size and no active sort column.
func New[T any](headers []string, rows []Row[T], opts ...Option) (*Grid[T], error) {
	o := options{locale: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, h)
		}
		index[h] = i
	}
	for i, r := range rows {
		if len(r) != len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowShape, i, len(r), len(headers))
		}
	}

	g := &Grid[T]{
		headers:  slices.Clone(headers),
		index:    index,
		rows:     rows,
		coll:     collate.New(o.locale),
		dir:      Ascending,
		page:     1,
		pageSize: DefaultPageSize,
	}
	g.resort()
	return g, nil
}

// Headers returns the column labels in display order.
func (g *Grid[T]) Headers() []string { return slices.Clone(g.headers) }

// RowCount returns the number of rows across all pages.
func (g *Grid[T]) RowCount() int { return len(g.rows) }

// Sortable reports whether clicking header can sort the grid. Only the first
// row decides; a grid without rows has no sortable column.
func (g *Grid[T]) Sortable(header string) bool {
	i, ok := g.index[header]
	if !ok || len(g.rows) == 0 {
		return false
	}
	return g.rows[0][i].Key.Defined()
}

// Indicator returns the direction glyph for header, or "" when it is not the
// active sort column.
func (g *Grid[T]) Indicator(header string) string {
	if header == "" || header != g.column {
		return ""
	}
	return g.dir.Glyph()
}

// ClickHeader applies a header click. A new column starts ascending, the
// active column toggles. Clicks on non-sortable columns are ignored and
// report false.
func (g *Grid[T]) ClickHeader(header string) bool {
	if !g.Sortable(header) {
		return false
	}
	if header == g.column {
		g.dir = g.dir.Toggle()
	} else {
		g.column = header
		g.dir = Ascending
	}
	g.resort()
	return true
}

// SetPageSize changes the page size. Unknown sizes fall back to the default.
// The current page is left alone and only corrected if it is now out of range.
func (g *Grid[T]) SetPageSize(size int) {
	g.pageSize = NormalizePageSize(size)
	g.page = ClampPage(g.page, g.TotalPages())
}

// SetPage applies a manually entered page number, snapped into range.
func (g *Grid[T]) SetPage(page int) {
	g.page = SnapPage(page, g.TotalPages())
}

// SetRows replaces the dataset, keeping sort and pagination state.
func (g *Grid[T]) SetRows(rows []Row[T]) error {
	for i, r := range rows {
		if len(r) != len(g.headers) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowShape, i, len(r), len(g.headers))
		}
	}
	g.rows = rows
	g.resort()
	return nil
}

// Page returns the current page number.
func (g *Grid[T]) Page() int { return g.page }

// PageSize returns the current page size.
func (g *Grid[T]) PageSize() int { return g.pageSize }

// Summary is the footer shown under every grid: "page X of Y (N rows)".
func (g *Grid[T]) Summary() string {
	return fmt.Sprintf("page %d of %d (%d rows)", g.page, g.TotalPages(), len(g.rows))
}

// TotalPages returns the number of pages, never less than 1.
func (g *Grid[T]) TotalPages() int { return TotalPages(len(g.rows), g.pageSize) }

// Visible returns the rows on the current page, in sort order.
func (g *Grid[T]) Visible() []Row[T] {
	start := (g.page - 1) * g.pageSize
	if start >= len(g.sorted) {
		return nil
	}
	end := min(start+g.pageSize, len(g.sorted))
	return g.sorted[start:end]
}

// resort re-derives the sorted view and corrects the current page.
func (g *Grid[T]) resort() {
	g.sorted = slices.Clone(g.rows)
	if i, ok := g.index[g.column]; ok {
		slices.SortStableFunc(g.sorted, func(a, b Row[T]) int {
			return compareKeys(a[i].Key, b[i].Key, g.dir, g.coll)
		})
	}
	g.page = ClampPage(g.page, g.TotalPages())
}
