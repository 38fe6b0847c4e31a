package components

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"
)

// Input types understood by Form.
const (
	InputText     = "text"
	InputNumber   = "number"
	InputTextarea = "textarea"
	InputCheckbox = "checkbox"
	InputDate     = "datetime-local"
	InputSelect   = "select"
)

// FormField is one input bound to the signal form.<Name>.
type FormField struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Checked     bool
	Options     []string
	Placeholder string
	Help        string
	Error       string
	Required    bool
}

// Form posts its signals to Action with datastar.
type Form struct {
	ID      string
	Action  string
	Message string
	Error   string
	Submit  string
	Cancel  string
	Danger  bool
	Fields  []FormField
}

// HasErrors reports whether the form or any field carries an error.
func (f Form) HasErrors() bool {
	if f.Error != "" {
		return true
	}
	for _, field := range f.Fields {
		if field.Error != "" {
			return true
		}
	}
	return false
}

// signals seeds form.* with the current field values.
func (f Form) signals() string {
	values := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		if field.Type == InputCheckbox {
			values[field.Name] = field.Checked
			continue
		}
		values[field.Name] = field.Value
	}
	b, _ := json.Marshal(map[string]any{"form": values})
	return string(b)
}

// FormView renders f. Re-rendering it over SSE replaces the element by ID.
func FormView(f Form) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("form",
			"id", f.ID,
			"class", "form",
			"data-signals", f.signals(),
			"data-on:submit", "@post('"+f.Action+"')",
		)
		if f.Message != "" {
			m.elem("p", f.Message, "class", "form-message")
		}
		if f.Error != "" {
			m.elem("p", f.Error, "class", "form-error", "role", "alert")
		}

		for _, field := range f.Fields {
			m.child(fieldView(field))
		}

		submit := f.Submit
		if submit == "" {
			submit = "Save"
		}
		class := "button primary"
		if f.Danger {
			class = "button danger"
		}
		m.open("div", "class", "form-actions")
		m.elem("button", submit, "type", "submit", "class", class)
		if f.Cancel != "" {
			m.raw(" ").elem("a", "Cancel", "href", f.Cancel, "class", "button")
		}
		m.close("div")
		m.close("form")
		return m.err
	})
}

func fieldView(f FormField) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		id := "field-" + f.Name
		bind := "form." + f.Name

		class := "field"
		if f.Error != "" {
			class = "field has-error"
		}
		m.open("div", "class", class)
		m.elem("label", f.Label, "for", id)

		required := boolAttr(f.Required, "required")
		switch f.Type {
		case InputTextarea:
			m.open("textarea", "id", id, "name", f.Name, "data-bind", bind, "rows", "8", "placeholder", f.Placeholder, "required", required)
			m.text(f.Value).close("textarea")
		case InputCheckbox:
			m.open("input", "id", id, "name", f.Name, "type", "checkbox", "data-bind", bind, "checked", boolAttr(f.Checked, "checked"))
		case InputSelect:
			m.open("select", "id", id, "name", f.Name, "data-bind", bind, "required", required)
			for _, opt := range f.Options {
				m.elem("option", opt, "value", opt, "selected", boolAttr(opt == f.Value, "selected"))
			}
			m.close("select")
		default:
			typ := f.Type
			if typ == "" {
				typ = InputText
			}
			m.open("input", "id", id, "name", f.Name, "type", typ, "data-bind", bind, "value", f.Value, "placeholder", f.Placeholder, "required", required)
		}

		if f.Help != "" {
			m.elem("p", f.Help, "class", "field-help")
		}
		if f.Error != "" {
			m.elem("p", f.Error, "class", "field-error")
		}
		m.close("div")
		return m.err
	})
}
