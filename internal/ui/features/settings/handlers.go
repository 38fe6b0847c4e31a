package settings

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

const resource = "settings"

// Handlers provides HTTP handlers for the settings page.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// section loads one settings form. A failed load renders an error panel
// in place of the form.
type section struct {
	id    string
	title string
	load  func(ctx context.Context, c api.Client) (components.Form, error)
}

var sections = []section{
	{"settings-network", "Network", func(ctx context.Context, c api.Client) (components.Form, error) {
		cfg, err := c.GetSystemNetwork(ctx)
		return networkForm(cfg), err
	}},
	{"settings-security", "Security", func(ctx context.Context, c api.Client) (components.Form, error) {
		cfg, err := c.GetSystemSecurity(ctx)
		return securityForm(cfg), err
	}},
	{"settings-updates", "Updates", func(ctx context.Context, c api.Client) (components.Form, error) {
		cfg, err := c.GetSystemUpdates(ctx)
		return updatesForm(cfg), err
	}},
	{"settings-settings", "Logging", func(ctx context.Context, c api.Client) (components.Form, error) {
		cfg, err := c.GetSystemSettings(ctx)
		return logLevelForm(cfg), err
	}},
}

// SettingsPage renders every settings section, loaded concurrently.
func (h *Handlers) SettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parts := make([]templ.Component, len(sections))

	var eg errgroup.Group
	for i, s := range sections {
		eg.Go(func() error {
			form, err := s.load(ctx, h.deps.Client)
			if err != nil {
				h.deps.Log().Warn("settings load failed", "section", s.id, "error", err)
				parts[i] = components.Section(s.title, components.ErrorPanel(s.id, err.Error()))
				return nil
			}
			parts[i] = components.Section(s.title, components.FormView(form))
			return nil
		})
	}
	_ = eg.Wait()

	page := components.Page{Title: "Settings", CurrentPath: "/settings"}
	h.deps.RenderPage(w, r, http.StatusOK, page, components.Group(parts...))
}

// save runs the shared submit flow: patch the form on validation or
// backend errors, otherwise flash and reload the page.
func (h *Handlers) save(w http.ResponseWriter, r *http.Request, form components.Form, message string, put func() error) {
	if form.HasErrors() {
		h.deps.PatchForm(w, r, form)
		return
	}
	if err := put(); err != nil {
		h.deps.Log().Warn("settings save failed", "form", form.ID, "error", err)
		form.Error = common.BackendMessage(err)
		h.deps.PatchForm(w, r, form)
		return
	}
	h.deps.Succeed(w, r, resource, message, "/settings")
}

func (h *Handlers) readSignals(w http.ResponseWriter, r *http.Request) (Signals, bool) {
	signals, err := common.ReadSignals[Signals](r)
	if err != nil {
		h.deps.SignalError(w, r, err)
		return signals, false
	}
	return signals, true
}

// NetworkSubmit saves the REST listen address.
func (h *Handlers) NetworkSubmit(w http.ResponseWriter, r *http.Request) {
	signals, ok := h.readSignals(w, r)
	if !ok {
		return
	}
	cfg := api.SystemNetwork{RestServerAddress: strings.TrimSpace(signals.Form.RestServerAddress)}
	form := networkForm(cfg)
	form.Fields[0].Error = validateAddress(cfg.RestServerAddress)

	h.save(w, r, form, "Network settings saved", func() error {
		return h.deps.Client.UpdateSystemNetwork(r.Context(), cfg)
	})
}

// SecuritySubmit saves the trusted client certificate fingerprints.
func (h *Handlers) SecuritySubmit(w http.ResponseWriter, r *http.Request) {
	signals, ok := h.readSignals(w, r)
	if !ok {
		return
	}
	fingerprints, msg := parseFingerprints(signals.Form.Fingerprints)
	cfg := api.SystemSecurity{TrustedTLSClientCertFingerprints: fingerprints}
	form := securityForm(cfg)
	if msg != "" {
		form.Fields[0].Value = signals.Form.Fingerprints
		form.Fields[0].Error = msg
	}

	h.save(w, r, form, "Security settings saved", func() error {
		return h.deps.Client.UpdateSystemSecurity(r.Context(), cfg)
	})
}

// UpdatesSubmit saves the update source and filters.
func (h *Handlers) UpdatesSubmit(w http.ResponseWriter, r *http.Request) {
	signals, ok := h.readSignals(w, r)
	if !ok {
		return
	}
	cfg := api.SystemUpdates{
		Source:               strings.TrimSpace(signals.Form.Source),
		FilterExpression:     strings.TrimSpace(signals.Form.FilterExpression),
		FileFilterExpression: strings.TrimSpace(signals.Form.FileFilterExpression),
	}
	form := updatesForm(cfg)
	form.Fields[0].Error = validateSource(cfg.Source)

	h.save(w, r, form, "Update settings saved", func() error {
		return h.deps.Client.UpdateSystemUpdates(r.Context(), cfg)
	})
}

// LogLevelSubmit saves the backend log level.
func (h *Handlers) LogLevelSubmit(w http.ResponseWriter, r *http.Request) {
	signals, ok := h.readSignals(w, r)
	if !ok {
		return
	}
	cfg := api.SystemSettings{LogLevel: signals.Form.LogLevel}
	form := logLevelForm(cfg)
	if !validLogLevel(cfg.LogLevel) {
		form.Fields[0].Error = "Choose one of " + strings.Join(LogLevels, ", ")
	}

	h.save(w, r, form, "Log level saved", func() error {
		return h.deps.Client.UpdateSystemSettings(r.Context(), cfg)
	})
}
