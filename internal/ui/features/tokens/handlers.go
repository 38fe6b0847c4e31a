package tokens

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// Notifier resources touched by this feature.
const (
	resourceTokens = "tokens"
	resourceSeeds  = "seeds"
)

var timeNow = time.Now

// Handlers provides HTTP handlers for tokens and their seeds.
type Handlers struct {
	deps   *common.Deps
	tokens tables.Table
	seeds  tables.Table
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) (*Handlers, error) {
	tokens, err := tables.Lookup("tokens")
	if err != nil {
		return nil, err
	}
	seeds, err := tables.Lookup("seeds")
	if err != nil {
		return nil, err
	}
	return &Handlers{deps: deps, tokens: tokens, seeds: seeds}, nil
}

func page(title string) components.Page {
	return components.Page{Title: title, CurrentPath: "/tokens"}
}

// tokenID parses the {uuid} route parameter. On failure it renders a 404
// page and reports false.
func (h *Handlers) tokenID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		h.deps.RenderPage(w, r, http.StatusNotFound, page("Token not found"),
			components.ErrorPanel("backend-error", "invalid token id "+strconv.Quote(chi.URLParam(r, "uuid"))))
		return uuid.Nil, false
	}
	return id, true
}

// tokenIDSignal parses {uuid} on datastar requests, where errors go to the console.
func (h *Handlers) tokenIDSignal(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		h.deps.SignalError(w, r, fmt.Errorf("invalid token id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

// ListPage renders the token grid.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	h.deps.ListPage(w, r, page("Tokens"),
		common.GridSource{Table: h.tokens, Endpoint: "/tokens/grid"},
		components.Toolbar(tables.Link{Label: "New token", Href: "/tokens/new"}),
	)
}

// GridSSE answers sort and page interactions on the token grid.
func (h *Handlers) GridSSE(w http.ResponseWriter, r *http.Request) {
	h.deps.GridSSE(w, r, common.GridSource{Table: h.tokens, Endpoint: "/tokens/grid"})
}

// CreatePage renders the create form with one use and a 30 day expiry.
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	expire := formatDate(timeNow().AddDate(0, 0, 30).Truncate(time.Minute))
	h.deps.FormPage(w, r, page("New token"), tokenForm("/tokens/new", "/tokens", "Create token", "", 1, expire))
}

// CreateSubmit creates a token.
func (h *Handlers) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	signals, err := common.ReadSignals[TokenSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := tokenForm("/tokens/new", "/tokens", "Create token", signals.Form.Description, int(signals.Form.UsesRemaining), signals.Form.ExpireAt)
	put, ok := parseToken(signals, &form)
	if !ok {
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.CreateToken(r.Context(), put); err != nil {
		h.deps.Log().Warn("create token failed", "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resourceTokens, "Token created", "/tokens")
}

// EditPage renders the edit form with the token's current values.
func (h *Handlers) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	p := page("Edit token")

	token, err := h.deps.Client.GetToken(r.Context(), id)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	h.deps.FormPage(w, r, p, tokenForm(tokenPath(id, "edit"), tokenPath(id, "seeds"), "Save",
		token.Description, token.UsesRemaining, formatDate(token.ExpireAt)))
}

// EditSubmit updates the token.
func (h *Handlers) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenIDSignal(w, r)
	if !ok {
		return
	}
	signals, err := common.ReadSignals[TokenSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := tokenForm(tokenPath(id, "edit"), tokenPath(id, "seeds"), "Save", signals.Form.Description, int(signals.Form.UsesRemaining), signals.Form.ExpireAt)
	put, ok := parseToken(signals, &form)
	if !ok {
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.UpdateToken(r.Context(), id, put); err != nil {
		h.deps.Log().Warn("update token failed", "uuid", id, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resourceTokens, "Token updated", tokenPath(id, "seeds"))
}

func deleteForm(id uuid.UUID) components.Form {
	return common.ConfirmForm(tokenPath(id, "delete"), tokenPath(id, "seeds"),
		fmt.Sprintf("Delete token %s and all of its seeds?", id), "Delete token")
}

// DeletePage asks for confirmation.
func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	h.deps.FormPage(w, r, page("Delete token"), deleteForm(id))
}

// DeleteSubmit deletes the token.
func (h *Handlers) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenIDSignal(w, r)
	if !ok {
		return
	}
	h.deps.Confirm(w, r, resourceTokens, deleteForm(id),
		func() error { return h.deps.Client.DeleteToken(r.Context(), id) },
		"Token deleted", "/tokens")
}

func (h *Handlers) seedSource(id uuid.UUID) common.GridSource {
	return common.GridSource{
		Table:    h.seeds,
		Query:    tables.Query{Token: id},
		Endpoint: tokenPath(id, "seeds", "grid"),
	}
}

// SeedsPage shows a token and the grid of its seeds.
func (h *Handlers) SeedsPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	p := page("Token " + id.String())

	token, err := h.deps.Client.GetToken(r.Context(), id)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}

	seeds, err := h.deps.GridContent(r.Context(), h.seedSource(id))
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}

	h.deps.RenderPage(w, r, status, p, components.Group(
		components.Toolbar(
			tables.Link{Label: "Edit", Href: tokenPath(id, "edit")},
			tables.Link{Label: "New seed", Href: tokenPath(id, "seeds", "new")},
			tables.Link{Label: "Delete", Href: tokenPath(id, "delete")},
		),
		components.DetailList([]components.Detail{
			{Label: "UUID", Value: token.UUID.String()},
			{Label: "Description", Value: token.Description},
			{Label: "Uses remaining", Value: strconv.Itoa(token.UsesRemaining)},
			{Label: "Expires", Value: tables.FormatTime(token.ExpireAt)},
		}),
		components.Section("Seeds", seeds),
	))
}

// SeedsGridSSE answers sort and page interactions on a token's seed grid.
func (h *Handlers) SeedsGridSSE(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenIDSignal(w, r)
	if !ok {
		return
	}
	h.deps.GridSSE(w, r, h.seedSource(id))
}

// SeedCreatePage renders an empty seed form.
func (h *Handlers) SeedCreatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	h.deps.FormPage(w, r, page("New seed"), seedForm(id, SeedSignals{}))
}

// SeedCreateSubmit creates a seed for the token.
func (h *Handlers) SeedCreateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenIDSignal(w, r)
	if !ok {
		return
	}
	signals, err := common.ReadSignals[SeedSignals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return
	}

	form := seedForm(id, signals)
	post, ok := parseSeed(signals, &form)
	if !ok {
		h.deps.PatchForm(w, r, form)
		return
	}

	if err := h.deps.Client.CreateTokenSeed(r.Context(), id, post); err != nil {
		h.deps.Log().Warn("create seed failed", "uuid", id, "name", post.Name, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}

	h.deps.Succeed(w, r, resourceSeeds, fmt.Sprintf("Seed %s created", post.Name), tokenPath(id, "seeds"))
}

// SeedDetailPage shows one seed with its values as YAML.
func (h *Handlers) SeedDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	p := page("Seed " + name)

	seeds, err := h.deps.Client.ListTokenSeeds(r.Context(), id)
	if err != nil {
		h.deps.RenderBackendError(w, r, p, err)
		return
	}
	i := slices.IndexFunc(seeds, func(s api.TokenSeed) bool { return s.Name == name })
	if i < 0 {
		h.deps.RenderBackendError(w, r, p, &api.StatusError{StatusCode: http.StatusNotFound, Message: "seed not found"})
		return
	}
	seed := seeds[i]

	public := "no"
	if seed.Public {
		public = "yes"
	}
	h.deps.RenderPage(w, r, http.StatusOK, p, components.Group(
		components.Toolbar(
			tables.Link{Label: "Back to token", Href: tokenPath(id, "seeds")},
			tables.Link{Label: "Delete", Href: seedPath(id, name, "delete")},
		),
		components.DetailList([]components.Detail{
			{Label: "Name", Value: seed.Name},
			{Label: "Description", Value: seed.Description},
			{Label: "Public", Value: public},
			{Label: "Last updated", Value: tables.FormatTime(seed.LastUpdated)},
		}),
		components.CodeBlock("Seeds", common.FormatYAML(seed.Seeds)),
	))
}

func seedPath(id uuid.UUID, name string, suffix ...string) string {
	return tokenPath(id, append([]string{"seeds", url.PathEscape(name)}, suffix...)...)
}

func seedDeleteForm(id uuid.UUID, name string) components.Form {
	return common.ConfirmForm(seedPath(id, name, "delete"), tokenPath(id, "seeds"),
		fmt.Sprintf("Delete seed %s?", name), "Delete seed")
}

// SeedDeletePage asks for confirmation.
func (h *Handlers) SeedDeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	h.deps.FormPage(w, r, page("Delete seed "+name), seedDeleteForm(id, name))
}

// SeedDeleteSubmit deletes the seed.
func (h *Handlers) SeedDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenIDSignal(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	h.deps.Confirm(w, r, resourceSeeds, seedDeleteForm(id, name),
		func() error { return h.deps.Client.DeleteTokenSeed(r.Context(), id, name) },
		fmt.Sprintf("Seed %s deleted", name), tokenPath(id, "seeds"))
}
