package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
)

// ResourceFlags narrow the rows a resource command loads.
type ResourceFlags struct {
	Cluster string
	Host    string
	Project string
	Channel string
	Token   string
	Update  string
}

func (f *ResourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Cluster, "cluster", "", "Only rows belonging to this cluster")
	fs.StringVar(&f.Host, "host", "", "Only rows belonging to this server")
	fs.StringVar(&f.Project, "project", "", "Only inventory rows in this project")
	fs.StringVar(&f.Channel, "channel", "", "Only updates published to this channel")
	fs.StringVar(&f.Token, "token", "", "Token UUID whose seeds to list")
	fs.StringVar(&f.Update, "update", "", "Update UUID whose files to list")
}

// Query converts the flags into a tables.Query.
func (f *ResourceFlags) Query() (tables.Query, error) {
	q := tables.Query{
		Cluster: f.Cluster,
		Server:  f.Host,
		Project: f.Project,
		Channel: f.Channel,
	}
	var err error
	if f.Token != "" {
		if q.Token, err = uuid.Parse(f.Token); err != nil {
			return tables.Query{}, fmt.Errorf("invalid --token %q: %w", f.Token, err)
		}
	}
	if f.Update != "" {
		if q.Update, err = uuid.Parse(f.Update); err != nil {
			return tables.Query{}, fmt.Errorf("invalid --update %q: %w", f.Update, err)
		}
	}
	return q, nil
}

// resolveTable accepts registry names plus bare inventory kinds, so
// "instances" finds "inventory/instances".
func resolveTable(name string) (tables.Table, error) {
	t, err := tables.Lookup(name)
	if err == nil {
		return t, nil
	}
	if kind, kerr := api.ParseInventoryKind(name); kerr == nil {
		return tables.Lookup(tables.InventoryName(kind))
	}
	return tables.Table{}, err
}

// completeResources offers table names for the resource argument.
func completeResources(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, name := range tables.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// loadGrid fetches a table and builds a plain-text grid without the
// action column.
func loadGrid(ctx context.Context, cmdCtx *CommandContext, t tables.Table, q tables.Query) (*grid.Grid[string], error) {
	cmdCtx.Logger.Debug("loading table", "table", t.Name, "server", cmdCtx.Cfg.Server.URL)
	ds, err := t.Load(ctx, cmdCtx.Client, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", t.Name, err)
	}
	ds = ds.WithoutActions()
	return grid.New(ds.Headers, tables.Cells(ds, tables.PlainText), grid.WithLocale(cmdCtx.Locale()))
}

// pageSizeFlag returns the --page-size value when given, otherwise the
// configured default.
func pageSizeFlag(cmd *cobra.Command, flagValue int, cfgValue int) (int, error) {
	size := cfgValue
	if cmd.Flags().Changed("page-size") {
		size = flagValue
	}
	if !slices.Contains(grid.PageSizes, size) {
		return 0, fmt.Errorf("page size %d is not one of %v", size, grid.PageSizes)
	}
	return size, nil
}
