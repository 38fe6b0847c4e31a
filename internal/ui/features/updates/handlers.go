package updates

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

const resource = "updates"

// Handlers provides HTTP handlers for the update catalog.
type Handlers struct {
	deps    *common.Deps
	updates tables.Table
	files   tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	updates, err := tables.Lookup("updates")
	if err != nil {
		return nil, err
	}
	files, err := tables.Lookup("update-files")
	if err != nil {
		return nil, err
	}
	return &Handlers{deps: deps, updates: updates, files: files}, nil
}

func page(title string) components.Page {
	return components.Page{Title: title, CurrentPath: "/updates-catalog"}
}

func (h *Handlers) filesSource(id uuid.UUID) common.GridSource {
	return common.GridSource{
		Table:    h.files,
		Query:    tables.Query{Update: id},
		Endpoint: "/updates-catalog/" + id.String() + "/files/grid",
	}
}

// source builds the update grid source, honouring ?channel=.
func (h *Handlers) source(r *http.Request) common.GridSource {
	channel := r.URL.Query().Get("channel")
	return common.GridSource{
		Table:    h.updates,
		Query:    tables.Query{Channel: channel},
		Endpoint: components.GridURL("/updates-catalog/grid", "channel", channel),
	}
}

// ListPage renders the update grid, optionally limited to one channel.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	title := "Updates"
	if channel := r.URL.Query().Get("channel"); channel != "" {
		title = "Updates in " + channel
	}
	h.deps.ListPage(w, r, page(title), h.source(r),
		components.Toolbar(tables.Link{Label: "Refresh catalog", Href: "/updates-catalog/refresh"}),
	)
}

// GridSSE answers sort and page interactions on the update grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	h.deps.GridSSE(w, r, h.source(r))
}

// DetailPage shows one update, its changelog and its files.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	p := page("Update")
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		h.deps.RenderPage(w, r, http.StatusNotFound, p, components.ErrorPanel("backend-error", "invalid update id"))
		return
	}

	update, err := h.deps.Client.GetUpdate(r.Context(), id)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	p.Title = "Update " + update.Version

	source := components.Detail{Label: "Source", Value: update.URL, Href: update.URL}
	changelog := update.Changelog
	if strings.TrimSpace(changelog) == "" {
		changelog = "No changelog published."
	}
	files, _ := h.deps.GridContent(r.Context(), h.filesSource(id))

	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.DetailList([]components.Detail{
			{Label: "UUID", Value: update.UUID.String()},
			{Label: "Version", Value: update.Version},
			{Label: "Origin", Value: update.Origin},
			{Label: "External ID", Value: update.ExternalID},
			{Label: "Severity", Value: update.Severity},
			{Label: "Channels", Value: strings.Join(update.Channels, ", ")},
			{Label: "Status", Value: update.Status},
			{Label: "Published", Value: tables.FormatTime(update.PublishedAt)},
			source,
		}),
		components.CodeBlock("Changelog", changelog),
		components.Section("Files", files),
	))
}

// FilesGridSSE answers sort and page interactions on an update's file grid.
func (h *Handlers) FilesGridSSE(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		h.deps.SignalError(w, r, fmt.Errorf("invalid update id: %w", err))
		return
	}
	h.deps.GridSSE(w, r, h.filesSource(id))
}

func refreshForm() components.Form {
	f := common.ConfirmForm("/updates-catalog/refresh", "/updates-catalog",
		"Fetch the latest updates from the configured source now?", "Refresh")
	f.Danger = false
	return f
}

// RefreshPage asks for confirmation before refreshing the catalog.
func (h *Handlers) RefreshPage(w http.ResponseWriter, r *http.Request) {
	h.deps.FormPage(w, r, page("Refresh updates"), refreshForm())
}

// RefreshSubmit asks the backend to refresh the catalog.
func (h *Handlers) RefreshSubmit(w http.ResponseWriter, r *http.Request) {
	h.deps.Confirm(w, r, resource, refreshForm(),
		func() error { return h.deps.Client.RefreshUpdates(r.Context()) },
		"Update refresh started", "/updates-catalog")
}
