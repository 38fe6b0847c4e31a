package templates

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

const resource = "templates"

// Handlers provides HTTP handlers for cluster templates.
type Handlers struct {
	deps  *common.Deps
	table tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	table, err := tables.Lookup("templates")
	if err != nil {
		return nil, err
	}
	return &Handlers{deps: deps, table: table}, nil
}

func templatePath(name string, suffix ...string) string {
	p := "/templates/" + url.PathEscape(name)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func page(title string) components.Page {
	return components.Page{Title: title, CurrentPath: "/templates"}
}

// ListPage renders the template grid.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	h.deps.ListPage(w, r, page("Cluster templates"),
		common.GridSource{Table: h.table, Endpoint: "/templates/grid"},
		components.Toolbar(tables.Link{Label: "New template", Href: "/templates/new"}),
	)
}

// GridSSE answers sort and page interactions on the template grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	h.deps.GridSSE(w, r, common.GridSource{Table: h.table, Endpoint: "/templates/grid"})
}

// CreatePage renders an empty create form.
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.deps.FormPage(w, r, page("New cluster template"), createForm(TemplateSignals{}))
}

// CreateSubmit creates a template.
func (h *Handlers) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	signals, err := common.ReadSignals[TemplateSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := createForm(signals)
	name := strings.TrimSpace(signals.Form.Name)
	form.Fields[0].Error = common.ValidateName(name)
	post := api.ClusterTemplatePost{Name: name, ClusterTemplatePut: parsePut(signals, form.Fields[1:])}
	if form.HasErrors() {
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.CreateClusterTemplate(r.Context(), post); err != nil {
		h.deps.Log().Warn("create cluster template failed", "name", name, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resource, fmt.Sprintf("Cluster template %s created", name), templatePath(name))
}

// DetailPage shows a template with its configuration and variables.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Cluster template " + name)

	tmpl, err := h.deps.Client.GetClusterTemplate(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}

	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.Toolbar(
			tables.Link{Label: "Edit", Href: templatePath(name, "edit")},
			tables.Link{Label: "Rename", Href: templatePath(name, "rename")},
			tables.Link{Label: "Delete", Href: templatePath(name, "delete")},
		),
		components.DetailList([]components.Detail{
			{Label: "Name", Value: tmpl.Name},
			{Label: "Description", Value: tmpl.Description},
			{Label: "Last updated", Value: tables.FormatTime(tmpl.LastUpdated)},
		}),
		components.CodeBlock("Service config template", tmpl.ServiceConfigTemplate),
		components.CodeBlock("Application config template", tmpl.ApplicationConfigTemplate),
		components.CodeBlock("Variables", common.FormatYAML(tmpl.Variables)),
	))
}

// EditPage renders the edit form with the template's current values.
func (h *Handlers) EditPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Edit cluster template " + name)

	tmpl, err := h.deps.Client.GetClusterTemplate(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	h.deps.FormPage(w, r, p, editForm(name, signalsFor(tmpl)))
}

// EditSubmit saves the template.
func (h *Handlers) EditSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	signals, err := common.ReadSignals[TemplateSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := editForm(name, signals)
	put := parsePut(signals, form.Fields)
	if form.HasErrors() {
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.UpdateClusterTemplate(r.Context(), name, put); err != nil {
		h.deps.Log().Warn("update cluster template failed", "name", name, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resource, fmt.Sprintf("Cluster template %s updated", name), templatePath(name))
}

// RenamePage renders the rename form.
func (h *Handlers) RenamePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Rename cluster template "+name), common.RenameForm(templatePath(name, "rename"), templatePath(name), name))
}

// RenameSubmit renames the template.
func (h *Handlers) RenameSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Rename(w, r, resource, templatePath(name, "rename"), templatePath(name),
		func(newName string) error { return h.deps.Client.RenameClusterTemplate(r.Context(), name, newName) },
		func(newName string) string { return templatePath(newName) },
	)
}

func deleteForm(name string) components.Form {
	return common.ConfirmForm(templatePath(name, "delete"), templatePath(name),
		fmt.Sprintf("Delete cluster template %s?", name), "Delete template")
}

// DeletePage asks for confirmation.
func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Delete cluster template "+name), deleteForm(name))
}

// DeleteSubmit deletes the template.
func (h *Handlers) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Confirm(w, r, resource, deleteForm(name),
		func() error { return h.deps.Client.DeleteClusterTemplate(r.Context(), name) },
		fmt.Sprintf("Cluster template %s deleted", name), "/templates")
}
