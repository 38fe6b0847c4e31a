package channels

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

const resource = "channels"

// Handlers provides HTTP handlers for update channels.
type Handlers struct {
	deps    *common.Deps
	table   tables.Table
	updates tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	table, err := tables.Lookup("channels")
	if err != nil {
		return nil, err
	}
	updates, err := tables.Lookup("updates")
	if err != nil {
		return nil, err
	}
	return &Handlers{deps: deps, table: table, updates: updates}, nil
}

func channelPath(name string, suffix ...string) string {
	p := "/channels/" + url.PathEscape(name)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func page(title string) components.Page {
	return components.Page{Title: title, CurrentPath: "/channels"}
}

// ListPage renders the channel grid.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	h.deps.ListPage(w, r, page("Channels"),
		common.GridSource{Table: h.table, Endpoint: "/channels/grid"},
		components.Toolbar(tables.Link{Label: "New channel", Href: "/channels/new"}),
	)
}

// GridSSE answers sort and page interactions on the channel grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	h.deps.GridSSE(w, r, common.GridSource{Table: h.table, Endpoint: "/channels/grid"})
}

// CreatePage renders an empty create form.
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.deps.FormPage(w, r, page("New channel"), createForm(ChannelSignals{}))
}

// CreateSubmit creates a channel.
func (h *Handlers) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	signals, err := common.ReadSignals[ChannelSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := createForm(signals)
	post := api.ChannelPost{
		Name:        strings.TrimSpace(signals.Form.Name),
		Description: strings.TrimSpace(signals.Form.Description),
	}
	if msg := common.ValidateName(post.Name); msg != "" {
		form.Fields[0].Error = msg
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.CreateChannel(r.Context(), post); err != nil {
		h.deps.Log().Warn("create channel failed", "name", post.Name, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resource, fmt.Sprintf("Channel %s created", post.Name), channelPath(post.Name))
}

// DetailPage shows a channel and the updates published to it.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Channel " + name)

	channel, err := h.deps.Client.GetChannel(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}

	updates, _ := h.deps.GridContent(r.Context(), common.GridSource{
		Table:    h.updates,
		Query:    tables.Query{Channel: channel.Name},
		Endpoint: components.GridURL("/updates-catalog/grid", "channel", channel.Name),
	})

	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.Toolbar(
			tables.Link{Label: "Edit", Href: channelPath(name, "edit")},
			tables.Link{Label: "Delete", Href: channelPath(name, "delete")},
		),
		components.DetailList([]components.Detail{
			{Label: "Name", Value: channel.Name},
			{Label: "Description", Value: channel.Description},
			{Label: "Last updated", Value: tables.FormatTime(channel.LastUpdated)},
		}),
		components.Section("Updates", updates),
	))
}

// EditPage renders the edit form with the channel's description.
func (h *Handlers) EditPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := page("Edit channel " + name)

	channel, err := h.deps.Client.GetChannel(r.Context(), name)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	h.deps.FormPage(w, r, p, editForm(name, channel.Description))
}

// EditSubmit saves the description.
func (h *Handlers) EditSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	signals, err := common.ReadSignals[ChannelSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	description := strings.TrimSpace(signals.Form.Description)
	if err := h.deps.Client.UpdateChannel(r.Context(), name, api.ChannelPut{Description: description}); err != nil {
		h.deps.Log().Warn("update channel failed", "name", name, "error", err)
		form := editForm(name, description)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resource, fmt.Sprintf("Channel %s updated", name), channelPath(name))
}

func deleteForm(name string) components.Form {
	return common.ConfirmForm(channelPath(name, "delete"), channelPath(name),
		fmt.Sprintf("Delete channel %s? Servers following it stop receiving updates.", name), "Delete channel")
}

// DeletePage asks for confirmation.
func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Delete channel "+name), deleteForm(name))
}

// DeleteSubmit deletes the channel.
func (h *Handlers) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.deps.Confirm(w, r, resource, deleteForm(name),
		func() error { return h.deps.Client.DeleteChannel(r.Context(), name) },
		fmt.Sprintf("Channel %s deleted", name), "/channels")
}
