package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/opscenter-labs/opsconsole/internal/tables"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next page load.
type Flash struct {
	Kind    string
	Message string
}

// FlashBanner renders f, or nothing when f is nil.
func FlashBanner(f *Flash) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if f == nil || f.Message == "" {
			return nil
		}
		return newMarkup(ctx, w).elem("div", f.Message, "id", "flash", "class", "flash flash-"+f.Kind, "role", "status").err
	})
}

// ErrorPanel stands in for content that failed to load. id lets it replace
// the element that would have been rendered.
func ErrorPanel(id, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("div", "id", id, "class", "error-panel", "role", "alert")
		m.elem("strong", "Unable to load data")
		m.elem("p", message)
		m.close("div")
		return m.err
	})
}

// Toolbar renders page-level action links.
func Toolbar(links ...tables.Link) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(links) == 0 {
			return nil
		}
		m := newMarkup(ctx, w)
		m.open("div", "class", "toolbar")
		for _, l := range links {
			m.elem("a", l.Label, "href", l.Href, "class", "button")
		}
		m.close("div")
		return m.err
	})
}

// Detail is one label/value line of a detail view.
type Detail struct {
	Label string
	Value string
	Href  string
}

// DetailList renders a description list.
func DetailList(details []Detail) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("dl", "class", "details")
		for _, d := range details {
			m.elem("dt", d.Label)
			m.open("dd")
			if d.Href != "" {
				m.elem("a", d.Value, "href", d.Href)
			} else {
				m.text(d.Value)
			}
			m.close("dd")
		}
		m.close("dl")
		return m.err
	})
}

// CodeBlock renders preformatted text under a heading.
func CodeBlock(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("section", "class", "code-block")
		if title != "" {
			m.elem("h2", title)
		}
		m.open("pre").elem("code", body).close("pre")
		m.close("section")
		return m.err
	})
}

// Section renders a titled block around content.
func Section(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("section", "class", "section")
		m.elem("h2", title)
		m.child(content)
		m.close("section")
		return m.err
	})
}

// Stat is one dashboard counter.
type Stat struct {
	Label string
	Href  string
	Count int
	Error string
}

// StatCards renders dashboard counters inside #dashboard.
func StatCards(stats []Stat) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("div", "id", "dashboard", "class", "cards")
		for _, s := range stats {
			m.open("a", "class", "card", "href", s.Href)
			m.elem("span", s.Label, "class", "card-label")
			if s.Error != "" {
				m.elem("span", "unavailable", "class", "card-value card-error", "title", s.Error)
			} else {
				m.elem("span", strconv.Itoa(s.Count), "class", "card-value")
			}
			m.close("a")
		}
		m.close("div")
		return m.err
	})
}

// Filter is one text input of a FilterForm.
type Filter struct {
	Name  string
	Label string
	Value string
}

// FilterForm renders a plain GET form that reloads action with the
// filters as query parameters.
func FilterForm(action string, filters []Filter) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("form", "method", "get", "action", action, "class", "filters")
		for _, f := range filters {
			id := "filter-" + f.Name
			m.elem("label", f.Label, "for", id)
			m.open("input", "type", "text", "id", id, "name", f.Name, "value", f.Value)
		}
		m.elem("button", "Filter", "type", "submit", "class", "button")
		m.raw(" ").elem("a", "Clear", "href", action, "class", "button")
		m.close("form")
		return m.err
	})
}
