package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/resources"
)

// AppName is appended to every page title.
const AppName = "Operations Center"

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Page describes the shell around a feature's content.
type Page struct {
	Title       string
	CurrentPath string
	Flash       *Flash
	// Live is the update stream the page opens on load, see LiveURL.
	Live string
}

// NavItem is one entry of the sidebar.
type NavItem struct {
	Label string
	Href  string
}

// Navigation is the sidebar, in display order.
func Navigation() []NavItem {
	return []NavItem{
		{Label: "Dashboard", Href: "/"},
		{Label: "Clusters", Href: "/clusters"},
		{Label: "Servers", Href: "/servers"},
		{Label: "Tokens", Href: "/tokens"},
		{Label: "Cluster templates", Href: "/templates"},
		{Label: "Updates", Href: "/updates-catalog"},
		{Label: "Channels", Href: "/channels"},
		{Label: "Settings", Href: "/settings"},
	}
}

// Layout renders a full HTML document with content inside #ui-content.
func Layout(p Page, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.raw("<!doctype html>").open("html", "lang", "en")
		m.open("head")
		m.raw(`<meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.elem("title", p.Title+" - "+AppName)
		m.open("link", "rel", "stylesheet", "href", resources.StaticPath("app.css"))
		m.open("script", "type", "module", "src", datastarScript).close("script")
		m.close("head")

		init := ""
		if p.Live != "" {
			init = "@get('" + p.Live + "')"
		}
		m.open("body", "data-init", init)
		m.child(sidebar(p.CurrentPath))
		m.open("main", "id", "ui-content")
		m.child(FlashBanner(p.Flash))
		m.elem("h1", p.Title)
		m.child(content)
		m.close("main")
		m.close("body").close("html")
		return m.err
	})
}

func sidebar(current string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("nav", "id", "sidebar")
		m.elem("a", AppName, "href", "/", "class", "brand")
		m.open("ul")
		for _, item := range Navigation() {
			m.open("li").elem("a", item.Label, "href", item.Href, "class", activeClass(current, item.Href)).close("li")
		}
		m.close("ul")

		m.elem("h2", "Inventory")
		m.open("ul")
		for _, kind := range api.InventoryKinds {
			href := "/inventory/" + string(kind)
			m.open("li").elem("a", tables.InventoryTitle(kind), "href", href, "class", activeClass(current, href)).close("li")
		}
		m.close("ul")
		m.close("nav")
		return m.err
	})
}

func activeClass(current, href string) string {
	if current == href || (href != "/" && strings.HasPrefix(current, href+"/")) {
		return "active"
	}
	return ""
}
