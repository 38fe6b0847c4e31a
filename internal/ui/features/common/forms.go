package common

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
	"gopkg.in/yaml.v3"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,62}$`)

// ValidateName checks a resource name and returns a field error message.
func ValidateName(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "Name is required"
	case !namePattern.MatchString(name):
		return "Use up to 63 letters, digits, dots, dashes or underscores, starting with a letter or digit"
	}
	return ""
}

// Required returns a field error for an empty value.
func Required(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	return ""
}

// ReadSignals decodes the request's datastar signals into a T.
func ReadSignals[T any](r *http.Request) (T, error) {
	var v T
	if err := datastar.ReadSignals(r, &v); err != nil {
		return v, fmt.Errorf("read signals: %w", err)
	}
	return v, nil
}

// BackendMessage turns a backend error into text for a form.
func BackendMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

// PatchForm re-renders a form, typically with validation or backend errors.
func (d *Deps) PatchForm(w http.ResponseWriter, r *http.Request, form components.Form) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.FormView(form)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// SignalError reports unreadable signals to the browser console.
func (d *Deps) SignalError(w http.ResponseWriter, r *http.Request, err error) {
	d.Log().Warn("bad signals", "path", r.URL.Path, "error", err)
	sse := datastar.NewSSE(w, r)
	_ = sse.ConsoleError(err)
}

// RenameSignals is posted by RenameForm.
type RenameSignals struct {
	Form struct {
		Name string `json:"name"`
	} `json:"form"`
}

// RenameForm asks for a new name.
func RenameForm(action, cancel, value string) components.Form {
	return components.Form{
		ID:     "rename-form",
		Action: action,
		Submit: "Rename",
		Cancel: cancel,
		Fields: []components.FormField{
			{Name: "name", Label: "New name", Value: value, Required: true},
		},
	}
}

// ConfirmForm asks the user to confirm a destructive action.
func ConfirmForm(action, cancel, message, submit string) components.Form {
	return components.Form{
		ID:      "confirm-form",
		Action:  action,
		Message: message,
		Submit:  submit,
		Cancel:  cancel,
		Danger:  true,
	}
}

// Rename runs the shared rename flow: validate the posted name, call
// rename, then redirect to location(newName) or re-patch the form.
func (d *Deps) Rename(w http.ResponseWriter, r *http.Request, resource, action, cancel string, rename func(newName string) error, location func(newName string) string) {
	signals, err := ReadSignals[RenameSignals](r)
	if err != nil {
		d.SignalError(w, r, err)
		return
	}

	newName := strings.TrimSpace(signals.Form.Name)
	form := RenameForm(action, cancel, newName)
	if msg := ValidateName(newName); msg != "" {
		form.Fields[0].Error = msg
		d.PatchForm(w, r, form)
		return
	}

	if err := rename(newName); err != nil {
		d.Log().Warn("rename failed", "resource", resource, "error", err)
		form.Error = BackendMessage(err)
		d.PatchForm(w, r, form)
		return
	}
	d.Succeed(w, r, resource, fmt.Sprintf("Renamed to %s", newName), location(newName))
}

// Confirm runs the shared confirmation flow for delete-like actions.
func (d *Deps) Confirm(w http.ResponseWriter, r *http.Request, resource string, form components.Form, run func() error, success, location string) {
	if err := run(); err != nil {
		d.Log().Warn("action failed", "resource", resource, "error", err)
		form.Error = BackendMessage(err)
		d.PatchForm(w, r, form)
		return
	}
	d.Succeed(w, r, resource, success, location)
}

// FormPage renders a full page around a form.
func (d *Deps) FormPage(w http.ResponseWriter, r *http.Request, page components.Page, form components.Form, extra ...templ.Component) {
	d.RenderPage(w, r, http.StatusOK, page, components.Group(append(extra, components.FormView(form))...))
}

// ParseYAMLMap decodes an optional YAML mapping typed into a textarea.
func ParseYAMLMap(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return out, nil
}

// FormatYAML renders v for a textarea or a code block.
func FormatYAML(v any) string {
	if v == nil {
		return ""
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return err.Error()
	}
	s := string(b)
	if s == "{}\n" || s == "null\n" {
		return ""
	}
	return s
}
