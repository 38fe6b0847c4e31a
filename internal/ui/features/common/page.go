package common

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

// RenderPage writes a full HTML page with the pending flash, if any.
func (d *Deps) RenderPage(w http.ResponseWriter, r *http.Request, status int, page components.Page, content templ.Component) {
	page.Flash = d.PopFlash(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := components.Layout(page, content).Render(r.Context(), w); err != nil {
		d.Log().Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// RenderBackendError renders page around an error panel. Backend 404s
// answer 404; everything else is a bad gateway.
func (d *Deps) RenderBackendError(w http.ResponseWriter, r *http.Request, page components.Page, err error) {
	status := http.StatusBadGateway
	if api.IsNotFound(err) {
		status = http.StatusNotFound
	}
	d.Log().Error("backend request failed", "path", r.URL.Path, "status", status, "error", err)
	d.RenderPage(w, r, status, page, components.ErrorPanel("backend-error", err.Error()))
}

// ListPage renders a page made of an optional toolbar and a grid. A loaded
// grid subscribes to changes of its table.
func (d *Deps) ListPage(w http.ResponseWriter, r *http.Request, page components.Page, src GridSource, toolbar ...templ.Component) {
	content, err := d.GridContent(r.Context(), src)
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	} else if page.Live == "" {
		page.Live = components.LiveURL(src.Table.Name, src.Endpoint)
	}
	d.RenderPage(w, r, status, page, components.Group(append(toolbar, content)...))
}
