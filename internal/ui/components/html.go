// Package components holds the templ components shared by every feature:
// the page shell, the data grid, forms and small panels.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// markup writes HTML and remembers the first write error.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newMarkup(ctx context.Context, w io.Writer) *markup {
	return &markup{ctx: ctx, w: w}
}

func (m *markup) raw(s string) *markup {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
	return m
}

func (m *markup) text(s string) *markup {
	return m.raw(templ.EscapeString(s))
}

// open writes a start tag. attrs are name/value pairs; pairs with an
// empty value are skipped.
func (m *markup) open(tag string, attrs ...string) *markup {
	m.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		name, value := attrs[i], attrs[i+1]
		if value == "" {
			continue
		}
		m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
	}
	return m.raw(">")
}

func (m *markup) close(tag string) *markup {
	return m.raw("</" + tag + ">")
}

// elem writes <tag attrs>text</tag>.
func (m *markup) elem(tag, text string, attrs ...string) *markup {
	return m.open(tag, attrs...).text(text).close(tag)
}

func (m *markup) child(c templ.Component) *markup {
	if m.err == nil && c != nil {
		m.err = c.Render(m.ctx, m.w)
	}
	return m
}

// boolAttr is the value of a boolean attribute such as checked="checked".
func boolAttr(on bool, name string) string {
	if on {
		return name
	}
	return ""
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return newMarkup(ctx, w).text(s).err
	})
}

// Group renders components one after another.
func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		for _, c := range children {
			m.child(c)
		}
		return m.err
	})
}
