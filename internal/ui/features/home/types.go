// Package home provides the dashboard feature for the UI.
package home

import "github.com/opscenter-labs/opsconsole/internal/ui/components"

// counter loads one dashboard number.
type counter struct {
	stat  components.Stat
	table string
}

// dashboardCounters lists the tables counted on the dashboard, in display order.
var dashboardCounters = []counter{
	{stat: components.Stat{Label: "Clusters", Href: "/clusters"}, table: "clusters"},
	{stat: components.Stat{Label: "Servers", Href: "/servers"}, table: "servers"},
	{stat: components.Stat{Label: "Tokens", Href: "/tokens"}, table: "tokens"},
	{stat: components.Stat{Label: "Cluster templates", Href: "/templates"}, table: "templates"},
	{stat: components.Stat{Label: "Updates", Href: "/updates-catalog"}, table: "updates"},
	{stat: components.Stat{Label: "Channels", Href: "/channels"}, table: "channels"},
}
