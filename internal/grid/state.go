package grid

// Page sizes offered by the page-size selector.
var PageSizes = []int{20, 50, 100}

// DefaultPageSize is the page size of a freshly created grid.
const DefaultPageSize = 20

// Direction is the sort order of the active column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Glyph returns the header indicator for d.
func (d Direction) Glyph() string {
	if d == Descending {
		return "▼"
	}
	return "▲"
}

// State is the serialisable snapshot of a grid's sort and pagination state.
// The web console round-trips it through datastar signals.
type State struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
	Page      int       `json:"page"`
	PageSize  int       `json:"pageSize"`
}

// DefaultState is the state of a freshly mounted grid.
func DefaultState() State {
	return State{Direction: Ascending, Page: 1, PageSize: DefaultPageSize}
}

// State returns the grid's current state.
func (g *Grid[T]) State() State {
	return State{Column: g.column, Direction: g.dir, Page: g.page, PageSize: g.pageSize}
}

// Restore applies a previously captured state. Unknown or non-sortable columns
// clear the sort, and an out-of-range page resets to 1.
func (g *Grid[T]) Restore(s State) {
	g.pageSize = NormalizePageSize(s.PageSize)
	g.column = ""
	g.dir = Ascending
	if g.Sortable(s.Column) {
		g.column = s.Column
		if s.Direction == Descending {
			g.dir = Descending
		}
	}
	g.page = s.Page
	g.resort()
}

// TotalPages returns ceil(rows/pageSize), displayed as at least 1.
func TotalPages(rows, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return max(1, (rows+pageSize-1)/pageSize)
}

// ClampPage corrects a page after a state change: anything outside
// [1, totalPages] goes back to page 1.
func ClampPage(current, totalPages int) int {
	if current < 1 || current > totalPages {
		return 1
	}
	return current
}

// SnapPage corrects a manually entered page by snapping it to the nearest
// bound of [1, totalPages].
func SnapPage(page, totalPages int) int {
	return min(max(page, 1), max(totalPages, 1))
}

// NormalizePageSize returns size when it is one of PageSizes and
// DefaultPageSize otherwise.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if s == size {
			return size
		}
	}
	return DefaultPageSize
}
