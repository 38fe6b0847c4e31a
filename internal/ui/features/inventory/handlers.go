package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// filters are the query parameters an inventory listing honours.
var filters = []components.Filter{
	{Name: "cluster", Label: "Cluster"},
	{Name: "server", Label: "Server"},
	{Name: "project", Label: "Project"},
}

// Handlers provides HTTP handlers for every inventory kind.
type Handlers struct {
	deps   *common.Deps
	tables map[api.InventoryKind]tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	h := &Handlers{deps: deps, tables: make(map[api.InventoryKind]tables.Table, len(api.InventoryKinds))}
	for _, kind := range api.InventoryKinds {
		t, err := tables.Lookup(tables.InventoryName(kind))
		if err != nil {
			return nil, err
		}
		h.tables[kind] = t
	}
	return h, nil
}

func kindPath(kind api.InventoryKind) string {
	return "/inventory/" + string(kind)
}

// kind resolves the {kind} route parameter, rendering a 404 page for
// unknown kinds.
func (h *Handlers) kind(w http.ResponseWriter, r *http.Request) (api.InventoryKind, bool) {
	kind, err := api.ParseInventoryKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.deps.RenderPage(w, r, http.StatusNotFound, components.Page{Title: "Inventory"},
			components.ErrorPanel("backend-error", err.Error()))
		return "", false
	}
	return kind, true
}

func (h *Handlers) source(kind api.InventoryKind, r *http.Request) common.GridSource {
	q := r.URL.Query()
	query := tables.Query{Cluster: q.Get("cluster"), Server: q.Get("server"), Project: q.Get("project")}
	return common.GridSource{
		Table: h.tables[kind],
		Query: query,
		Endpoint: components.GridURL(kindPath(kind)+"/grid",
			"cluster", query.Cluster, "server", query.Server, "project", query.Project),
	}
}

// ListPage renders the grid for one inventory kind with its filters.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	current := make([]components.Filter, len(filters))
	for i, f := range filters {
		f.Value = q.Get(f.Name)
		current[i] = f
	}

	p := components.Page{Title: tables.InventoryTitle(kind), CurrentPath: kindPath(kind)}
	h.deps.ListPage(w, r, p, h.source(kind, r), components.FilterForm(kindPath(kind), current))
}

// GridSSE answers sort and page interactions on an inventory grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	kind, err := api.ParseInventoryKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}
	h.deps.GridSSE(w, r, h.source(kind, r))
}

// DetailPage shows one inventory record with its raw object as YAML.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	p := components.Page{Title: tables.InventoryTitle(kind), CurrentPath: kindPath(kind)}

	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		h.deps.RenderPage(w, r, http.StatusNotFound, p, components.ErrorPanel("backend-error", "invalid inventory id"))
		return
	}

	item, err := h.deps.Client.GetInventoryItem(r.Context(), kind, id)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	p.Title = fmt.Sprintf("%s %s", tables.InventoryTitle(kind), item.Name)

	details := []components.Detail{
		{Label: "UUID", Value: item.UUID.String()},
		{Label: "Name", Value: item.Name},
		{Label: "Cluster", Value: item.Cluster, Href: clusterHref(item.Cluster)},
		{Label: "Server", Value: item.Server, Href: serverHref(item.Server)},
		{Label: "Project", Value: item.ProjectName},
		{Label: "Parent", Value: item.ParentName},
		{Label: "Last updated", Value: tables.FormatTime(item.LastUpdated)},
	}

	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.Toolbar(tables.Link{Label: "Back to " + tables.InventoryTitle(kind), Href: kindPath(kind)}),
		components.DetailList(details),
		components.CodeBlock("Object", objectYAML(item.Object)),
	))
}

func clusterHref(name string) string {
	if name == "" {
		return ""
	}
	return "/clusters/" + url.PathEscape(name)
}

func serverHref(name string) string {
	if name == "" {
		return ""
	}
	return "/servers/" + url.PathEscape(name)
}

// objectYAML renders a raw JSON object as YAML, falling back to the raw
// text when it does not decode.
func objectYAML(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return common.FormatYAML(v)
}
