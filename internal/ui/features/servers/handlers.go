package servers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

const resource = "servers"

// Handlers provides HTTP handlers for the servers feature.
type Handlers struct {
	deps      *common.Deps
	table     tables.Table
	instances tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	table, err := tables.Lookup("servers")
	if err != nil {
		return nil, err
	}
	instances, err := tables.Lookup(tables.InventoryName(api.InventoryInstances))
	if err != nil {
		return nil, err
	}
	return &Handlers{deps: deps, table: table, instances: instances}, nil
}

func serverPath(name string, suffix ...string) string {
	p := "/servers/" + url.PathEscape(name)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func page(title string) components.Page {
	return components.Page{Title: title, CurrentPath: "/servers"}
}

// source builds the grid source for the request, honouring ?cluster=.
func (h *Handlers) source(r *http.Request) common.GridSource {
	cluster := r.URL.Query().Get("cluster")
	return common.GridSource{
		Table:    h.table,
		Query:    tables.Query{Cluster: cluster},
		Endpoint: components.GridURL("/servers/grid", "cluster", cluster),
	}
}

// ListPage renders the server grid, optionally limited to one cluster.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	title := "Servers"
	if cluster := r.URL.Query().Get("cluster"); cluster != "" {
		title = "Servers in " + cluster
	}
	h.deps.ListPage(w, r, page(title), h.source(r))
}

// GridSSE answers sort and page interactions on the server grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	h.deps.GridSSE(w, r, h.source(r))
}

// DetailPage shows one server and the instances running on it.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Server " + name)

	server, err := h.deps.Client.GetServer(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}

	cluster := components.Detail{Label: "Cluster", Value: server.Cluster}
	if server.Cluster != "" {
		cluster.Href = "/clusters/" + url.PathEscape(server.Cluster)
	}
	os := strings.TrimSpace(server.OS.Name + " " + server.OS.Version)
	details := []components.Detail{
		{Label: "Name", Value: server.Name},
		{Label: "Type", Value: server.Type},
		cluster,
		{Label: "Status", Value: server.Status},
		{Label: "Connection URL", Value: server.ConnectionURL},
		{Label: "Public connection URL", Value: server.PublicConnectionURL},
		{Label: "Fingerprint", Value: server.Fingerprint},
		{Label: "CPU cores", Value: strconv.Itoa(server.Hardware.CPUCores)},
		{Label: "Memory", Value: tables.FormatBytes(server.Hardware.MemoryBytes)},
		{Label: "Operating system", Value: os},
		{Label: "Last updated", Value: tables.FormatTime(server.LastUpdated)},
		{Label: "Last seen", Value: tables.FormatTime(server.LastSeen)},
	}

	instances, _ := h.deps.GridContent(r.Context(), common.GridSource{
		Table:    h.instances,
		Query:    tables.Query{Server: server.Name},
		Endpoint: components.GridURL("/inventory/instances/grid", "server", server.Name),
	})

	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.Toolbar(
			tables.Link{Label: "Edit", Href: serverPath(name, "edit")},
			tables.Link{Label: "Rename", Href: serverPath(name, "rename")},
			tables.Link{Label: "Delete", Href: serverPath(name, "delete")},
		),
		components.DetailList(details),
		components.Section("Instances", instances),
	))
}

// EditPage renders the edit form with the current values.
func (h *Handlers) EditPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Edit server " + name)

	server, err := h.deps.Client.GetServer(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	h.deps.FormPage(w, r, p, editForm(name, server.PublicConnectionURL))
}

// EditSubmit saves the public connection URL.
func (h *Handlers) EditSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	signals, err := common.ReadSignals[EditSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	publicURL := strings.TrimSpace(signals.Form.PublicConnectionURL)
	form := editForm(name, publicURL)
	if msg := validateURL(publicURL); msg != "" {
		form.Fields[0].Error = msg
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.UpdateServer(r.Context(), name, api.ServerPut{PublicConnectionURL: publicURL}); err != nil {
		h.deps.Log().Warn("update server failed", "name", name, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resource, fmt.Sprintf("Server %s updated", name), serverPath(name))
}

// RenamePage renders the rename form.
func (h *Handlers) RenamePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Rename server "+name), common.RenameForm(serverPath(name, "rename"), serverPath(name), name))
}

// RenameSubmit renames the server.
func (h *Handlers) RenameSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Rename(w, r, resource, serverPath(name, "rename"), serverPath(name),
		func(newName string) error { return h.deps.Client.RenameServer(r.Context(), name, newName) },
		func(newName string) string { return serverPath(newName) },
	)
}

func deleteForm(name string) components.Form {
	return common.ConfirmForm(serverPath(name, "delete"), serverPath(name),
		fmt.Sprintf("Remove server %s from the Operations Center?", name), "Delete server")
}

// DeletePage asks for confirmation.
func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Delete server "+name), deleteForm(name))
}

// DeleteSubmit deletes the server.
func (h *Handlers) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Confirm(w, r, resource, deleteForm(name),
		func() error { return h.deps.Client.DeleteServer(r.Context(), name) },
		fmt.Sprintf("Server %s deleted", name), "/servers")
}
