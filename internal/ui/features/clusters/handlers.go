package clusters

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

const resource = "clusters"

// Handlers provides HTTP handlers for the clusters feature.
type Handlers struct {
	deps    *common.Deps
	table   tables.Table
	servers tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	table, err := tables.Lookup("clusters")
	if err != nil {
		return nil, err
	}
	servers, err := tables.Lookup("servers")
	if err != nil {
		return nil, err
	}
	return &Handlers{deps: deps, table: table, servers: servers}, nil
}

func clusterPath(name string, suffix ...string) string {
	p := "/clusters/" + url.PathEscape(name)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func page(title string) components.Page {
	return components.Page{Title: title, CurrentPath: "/clusters"}
}

// ListPage renders the cluster grid.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	h.deps.ListPage(w, r, page("Clusters"),
		common.GridSource{Table: h.table, Endpoint: "/clusters/grid"},
		components.Toolbar(tables.Link{Label: "New cluster", Href: "/clusters/new"}),
	)
}

// GridSSE answers sort and page interactions on the cluster grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	h.deps.GridSSE(w, r, common.GridSource{Table: h.table, Endpoint: "/clusters/grid"})
}

// CreatePage renders an empty create form.
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.deps.FormPage(w, r, page("New cluster"), createForm(CreateSignals{}))
}

// CreateSubmit validates the form and creates the cluster.
func (h *Handlers) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	signals, err := common.ReadSignals[CreateSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := createForm(signals)
	post, ok := parseCreate(signals, &form)
	if !ok {
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.CreateCluster(r.Context(), post); err != nil {
		h.deps.Log().Warn("create cluster failed", "name", post.Name, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resource, fmt.Sprintf("Cluster %s created", post.Name), clusterPath(post.Name))
}

// parseCreate validates the signals, recording field errors on form.
func parseCreate(s CreateSignals, form *components.Form) (api.ClusterPost, bool) {
	name := strings.TrimSpace(s.Form.Name)
	post := api.ClusterPost{
		Name:            name,
		ServerType:      s.Form.ServerType,
		ClusterTemplate: strings.TrimSpace(s.Form.ClusterTemplate),
	}
	if post.ServerType == "" {
		post.ServerType = api.ServerTypeIncus
	}
	for _, n := range strings.Split(s.Form.ServerNames, ",") {
		if n = strings.TrimSpace(n); n != "" {
			post.ServerNames = append(post.ServerNames, n)
		}
	}

	form.Fields[0].Error = common.ValidateName(name)
	if len(post.ServerNames) == 0 {
		form.Fields[1].Error = "At least one server is required"
	}

	var err error
	if post.ServicesConfig, err = common.ParseYAMLMap(s.Form.ServicesConfig); err != nil {
		form.Fields[4].Error = err.Error()
	}
	if post.ApplicationSeedConfig, err = common.ParseYAMLMap(s.Form.ApplicationConfig); err != nil {
		form.Fields[5].Error = err.Error()
	}

	return post, !form.HasErrors()
}

// DetailPage shows one cluster and the servers that belong to it.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Cluster " + name)

	cluster, err := h.deps.Client.GetCluster(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}

	details := []components.Detail{
		{Label: "Name", Value: cluster.Name},
		{Label: "Status", Value: cluster.Status},
		{Label: "Connection URL", Value: cluster.ConnectionURL},
		{Label: "Fingerprint", Value: cluster.Fingerprint},
		{Label: "Servers", Value: strings.Join(cluster.ServerNames, ", ")},
		{Label: "Last updated", Value: tables.FormatTime(cluster.LastUpdated)},
	}

	servers, _ := h.deps.GridContent(r.Context(), common.GridSource{
		Table:    h.servers,
		Query:    tables.Query{Cluster: cluster.Name},
		Endpoint: components.GridURL("/servers/grid", "cluster", cluster.Name),
	})

	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.Toolbar(
			tables.Link{Label: "Rename", Href: clusterPath(name, "rename")},
			tables.Link{Label: "Resync inventory", Href: clusterPath(name, "resync")},
			tables.Link{Label: "Delete", Href: clusterPath(name, "delete")},
		),
		components.DetailList(details),
		components.Section("Servers", servers),
	))
}

// RenamePage renders the rename form.
func (h *Handlers) RenamePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Rename cluster "+name), common.RenameForm(clusterPath(name, "rename"), clusterPath(name), name))
}

// RenameSubmit renames the cluster.
func (h *Handlers) RenameSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Rename(w, r, resource, clusterPath(name, "rename"), clusterPath(name),
		func(newName string) error { return h.deps.Client.RenameCluster(r.Context(), name, newName) },
		func(newName string) string { return clusterPath(newName) },
	)
}

func deleteForm(name string) components.Form {
	return common.ConfirmForm(clusterPath(name, "delete"), clusterPath(name),
		fmt.Sprintf("Delete cluster %s? Its servers are released but not wiped.", name), "Delete cluster")
}

// DeletePage asks for confirmation.
func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Delete cluster "+name), deleteForm(name))
}

// DeleteSubmit deletes the cluster.
func (h *Handlers) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Confirm(w, r, resource, deleteForm(name),
		func() error { return h.deps.Client.DeleteCluster(r.Context(), name) },
		fmt.Sprintf("Cluster %s deleted", name), "/clusters")
}

func resyncForm(name string) components.Form {
	f := common.ConfirmForm(clusterPath(name, "resync"), clusterPath(name),
		fmt.Sprintf("Resynchronise the inventory of cluster %s now?", name), "Resync inventory")
	f.Danger = false
	return f
}

// ResyncPage asks for confirmation before an inventory resync.
func (h *Handlers) ResyncPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Resync cluster "+name), resyncForm(name))
}

// ResyncSubmit triggers the inventory resync.
func (h *Handlers) ResyncSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Confirm(w, r, tables.InventoryResource, resyncForm(name),
		func() error { return h.deps.Client.ResyncClusterInventory(r.Context(), name) },
		fmt.Sprintf("Inventory resync of %s started", name), clusterPath(name))
}
