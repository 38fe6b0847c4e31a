// Package tables turns backend resources into grid datasets.
//
// A Dataset is renderer-neutral: each Field carries display text, an
// optional link and an optional sort key. The web console, the terminal
// listing and the TUI convert fields into their own cell content with Cells.
package tables

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/grid"
)

// ActionsHeader labels the per-row action column. It never has sort keys.
const ActionsHeader = "Actions"

var (
	// ErrUnknownTable is returned by Lookup for names not in the registry.
	ErrUnknownTable = errors.New("unknown table")
	// ErrMissingParent is returned when a nested table is loaded without its parent ID.
	ErrMissingParent = errors.New("parent resource is required")
)

// Link is a labelled URL rendered inside a field.
type Link struct {
	Label string
	Href  string
}

// Field is one cell before rendering.
type Field struct {
	Text  string
	Href  string
	Key   grid.SortKey
	Class string
	Links []Link
}

// Dataset is a table ready for the grid: Rows are aligned with Headers.
type Dataset struct {
	Headers []string
	Rows    [][]Field
}

// Query narrows what a table loads. Tables ignore fields they don't use.
type Query struct {
	Cluster string
	Server  string
	Project string
	Channel string
	Token   uuid.UUID
	Update  uuid.UUID
}

// Loader fetches a dataset from the backend.
type Loader func(ctx context.Context, c api.Client, q Query) (Dataset, error)

// Table is a registered resource listing.
type Table struct {
	Name  string
	Title string
	// Path is the web console base path for the listing.
	Path string
	Load Loader
}

var registry = buildRegistry()

func buildRegistry() map[string]Table {
	r := map[string]Table{
		"clusters":     {Name: "clusters", Title: "Clusters", Path: "/clusters", Load: loadClusters},
		"servers":      {Name: "servers", Title: "Servers", Path: "/servers", Load: loadServers},
		"tokens":       {Name: "tokens", Title: "Tokens", Path: "/tokens", Load: loadTokens},
		"seeds":        {Name: "seeds", Title: "Token seeds", Load: loadSeeds},
		"updates":      {Name: "updates", Title: "Updates", Path: "/updates-catalog", Load: loadUpdates},
		"update-files": {Name: "update-files", Title: "Update files", Load: loadUpdateFiles},
		"channels":     {Name: "channels", Title: "Channels", Path: "/channels", Load: loadChannels},
		"templates":    {Name: "templates", Title: "Cluster templates", Path: "/templates", Load: loadTemplates},
	}
	for _, kind := range api.InventoryKinds {
		name := InventoryName(kind)
		r[name] = Table{
			Name:  name,
			Title: InventoryTitle(kind),
			Path:  "/inventory/" + string(kind),
			Load:  inventoryLoader(kind),
		}
	}
	return r
}

// Lookup returns the table registered under name.
func Lookup(name string) (Table, error) {
	t, ok := registry[name]
	if !ok {
		return Table{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownTable, name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names lists every registered table, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InventoryResource prefixes every inventory table name.
const InventoryResource = "inventory"

// InventoryName is the registry key of an inventory kind.
func InventoryName(kind api.InventoryKind) string {
	return InventoryResource + "/" + string(kind)
}

// InventoryTitle is the human label of an inventory kind.
func InventoryTitle(kind api.InventoryKind) string {
	words := strings.Split(string(kind), "_")
	for i, w := range words {
		switch w {
		case "acls":
			words[i] = "ACLs"
		default:
			if i == 0 {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}
	return strings.Join(words, " ")
}

// Cells converts a dataset into grid rows with render producing each cell's content.
func Cells[T any](ds Dataset, render func(Field) T) []grid.Row[T] {
	rows := make([]grid.Row[T], len(ds.Rows))
	for i, fields := range ds.Rows {
		row := make(grid.Row[T], len(fields))
		for j, f := range fields {
			row[j] = grid.Cell[T]{Content: render(f), Key: f.Key, Class: f.Class}
		}
		rows[i] = row
	}
	return rows
}

// PlainText renders a field for terminals.
func PlainText(f Field) string {
	return f.Text
}

// WithoutActions drops the action column, which only makes sense on the web.
func (ds Dataset) WithoutActions() Dataset {
	idx := slices.Index(ds.Headers, ActionsHeader)
	if idx < 0 {
		return ds
	}
	out := Dataset{
		Headers: slices.Delete(slices.Clone(ds.Headers), idx, idx+1),
		Rows:    make([][]Field, len(ds.Rows)),
	}
	for i, row := range ds.Rows {
		if idx < len(row) {
			row = slices.Delete(slices.Clone(row), idx, idx+1)
		}
		out.Rows[i] = row
	}
	return out
}
