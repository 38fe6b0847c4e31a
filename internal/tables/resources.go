package tables

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
)

func loadClusters(ctx context.Context, c api.Client, _ Query) (Dataset, error) {
	clusters, err := c.ListClusters(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list clusters: %w", err)
	}

	ds := Dataset{Headers: []string{"Name", "Status", "Connection URL", "Servers", "Last updated", ActionsHeader}}
	for _, cl := range clusters {
		base := href("/clusters", cl.Name)
		ds.Rows = append(ds.Rows, []Field{
			link(cl.Name, base),
			status(cl.Status),
			text(cl.ConnectionURL),
			number(int64(len(cl.ServerNames))),
			timestamp(cl.LastUpdated),
			actions(
				Link{Label: "Rename", Href: base + "/rename"},
				Link{Label: "Resync", Href: base + "/resync"},
				Link{Label: "Delete", Href: base + "/delete"},
			),
		})
	}
	return ds, nil
}

func loadServers(ctx context.Context, c api.Client, q Query) (Dataset, error) {
	servers, err := c.ListServers(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list servers: %w", err)
	}

	ds := Dataset{Headers: []string{"Name", "Type", "Cluster", "Status", "CPU cores", "Memory", "Last seen", ActionsHeader}}
	for _, s := range servers {
		if q.Cluster != "" && s.Cluster != q.Cluster {
			continue
		}
		base := href("/servers", s.Name)
		cluster := text(s.Cluster)
		if s.Cluster != "" {
			cluster.Href = href("/clusters", s.Cluster)
		}
		ds.Rows = append(ds.Rows, []Field{
			link(s.Name, base),
			text(s.Type),
			cluster,
			status(s.Status),
			number(int64(s.Hardware.CPUCores)),
			bytesField(s.Hardware.MemoryBytes),
			timestamp(s.LastSeen),
			actions(
				Link{Label: "Edit", Href: base + "/edit"},
				Link{Label: "Rename", Href: base + "/rename"},
				Link{Label: "Delete", Href: base + "/delete"},
			),
		})
	}
	return ds, nil
}

func loadTokens(ctx context.Context, c api.Client, _ Query) (Dataset, error) {
	tokens, err := c.ListTokens(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list tokens: %w", err)
	}

	ds := Dataset{Headers: []string{"UUID", "Description", "Uses remaining", "Expires", ActionsHeader}}
	for _, t := range tokens {
		id := t.UUID.String()
		base := href("/tokens", id)
		ds.Rows = append(ds.Rows, []Field{
			link(id, base+"/seeds"),
			text(t.Description),
			number(int64(t.UsesRemaining)),
			timestamp(t.ExpireAt),
			actions(
				Link{Label: "Edit", Href: base + "/edit"},
				Link{Label: "Seeds", Href: base + "/seeds"},
				Link{Label: "Delete", Href: base + "/delete"},
			),
		})
	}
	return ds, nil
}

func loadSeeds(ctx context.Context, c api.Client, q Query) (Dataset, error) {
	if q.Token == uuid.Nil {
		return Dataset{}, fmt.Errorf("token seeds: %w", ErrMissingParent)
	}
	seeds, err := c.ListTokenSeeds(ctx, q.Token)
	if err != nil {
		return Dataset{}, fmt.Errorf("list seeds of token %s: %w", q.Token, err)
	}

	ds := Dataset{Headers: []string{"Name", "Description", "Public", "Last updated", ActionsHeader}}
	for _, s := range seeds {
		base := href("/tokens", q.Token.String(), "seeds", s.Name)
		ds.Rows = append(ds.Rows, []Field{
			link(s.Name, base),
			text(s.Description),
			boolean(s.Public),
			timestamp(s.LastUpdated),
			actions(Link{Label: "Delete", Href: base + "/delete"}),
		})
	}
	return ds, nil
}

func loadUpdates(ctx context.Context, c api.Client, q Query) (Dataset, error) {
	updates, err := c.ListUpdates(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list updates: %w", err)
	}

	ds := Dataset{Headers: []string{"Version", "Origin", "Severity", "Channels", "Status", "Published"}}
	for _, u := range updates {
		if q.Channel != "" && !slices.Contains(u.Channels, q.Channel) {
			continue
		}
		ds.Rows = append(ds.Rows, []Field{
			link(u.Version, href("/updates-catalog", u.UUID.String())),
			text(u.Origin),
			status(u.Severity),
			text(strings.Join(u.Channels, ", ")),
			status(u.Status),
			timestamp(u.PublishedAt),
		})
	}
	return ds, nil
}

func loadUpdateFiles(ctx context.Context, c api.Client, q Query) (Dataset, error) {
	if q.Update == uuid.Nil {
		return Dataset{}, fmt.Errorf("update files: %w", ErrMissingParent)
	}
	files, err := c.ListUpdateFiles(ctx, q.Update)
	if err != nil {
		return Dataset{}, fmt.Errorf("list files of update %s: %w", q.Update, err)
	}

	ds := Dataset{Headers: []string{"Filename", "Component", "Type", "Architecture", "Size"}}
	for _, f := range files {
		name := text(f.Filename)
		name.Href = f.URL
		ds.Rows = append(ds.Rows, []Field{
			name,
			text(f.Component),
			text(f.Type),
			text(f.Architecture),
			bytesField(f.Size),
		})
	}
	return ds, nil
}

func loadChannels(ctx context.Context, c api.Client, _ Query) (Dataset, error) {
	channels, err := c.ListChannels(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list channels: %w", err)
	}

	ds := Dataset{Headers: []string{"Name", "Description", "Last updated", ActionsHeader}}
	for _, ch := range channels {
		base := href("/channels", ch.Name)
		ds.Rows = append(ds.Rows, []Field{
			link(ch.Name, base),
			text(ch.Description),
			timestamp(ch.LastUpdated),
			actions(
				Link{Label: "Edit", Href: base + "/edit"},
				Link{Label: "Delete", Href: base + "/delete"},
			),
		})
	}
	return ds, nil
}

func loadTemplates(ctx context.Context, c api.Client, _ Query) (Dataset, error) {
	tmpls, err := c.ListClusterTemplates(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("list cluster templates: %w", err)
	}

	ds := Dataset{Headers: []string{"Name", "Description", "Variables", "Last updated", ActionsHeader}}
	for _, t := range tmpls {
		base := href("/templates", t.Name)
		ds.Rows = append(ds.Rows, []Field{
			link(t.Name, base),
			text(t.Description),
			number(int64(len(t.Variables))),
			timestamp(t.LastUpdated),
			actions(
				Link{Label: "Edit", Href: base + "/edit"},
				Link{Label: "Rename", Href: base + "/rename"},
				Link{Label: "Delete", Href: base + "/delete"},
			),
		})
	}
	return ds, nil
}

func inventoryLoader(kind api.InventoryKind) Loader {
	return func(ctx context.Context, c api.Client, q Query) (Dataset, error) {
		items, err := c.ListInventory(ctx, kind, api.InventoryFilter{
			Cluster: q.Cluster,
			Server:  q.Server,
			Project: q.Project,
		})
		if err != nil {
			return Dataset{}, fmt.Errorf("list %s: %w", kind, err)
		}

		ds := Dataset{Headers: []string{"Name", "Cluster", "Server", "Project", "Parent", "Last updated"}}
		for _, item := range items {
			cluster := text(item.Cluster)
			if item.Cluster != "" {
				cluster.Href = href("/clusters", item.Cluster)
			}
			ds.Rows = append(ds.Rows, []Field{
				link(item.Name, href("/inventory/"+string(kind), item.UUID.String())),
				cluster,
				text(item.Server),
				text(item.ProjectName),
				text(item.ParentName),
				timestamp(item.LastUpdated),
			})
		}
		return ds, nil
	}
}
