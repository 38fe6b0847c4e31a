package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opscenter-labs/opsconsole/internal/cli/output"
	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Sort     string
	Desc     bool
	Page     int
	PageSize int
	ResourceFlags
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Print one page of a resource grid",
		Long: `Load a resource from the Operations Center and print one page of it.

Resources: ` + strings.Join(tables.Names(), ", ") + `
Inventory kinds may be given without the "inventory/" prefix.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # First page of servers
  opsconsole list servers

  # Servers of one cluster, sorted by name descending
  opsconsole list servers --cluster prod --sort Name --desc

  # Third page of instances, 50 per page, as JSON
  opsconsole list instances --page 3 --page-size 50 -o json

  # Seeds of a token
  opsconsole list seeds --token 7f1c9a2e-0000-4000-8000-000000000001`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Column header to sort by")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "Sort descending (requires --sort)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page to print")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", grid.DefaultPageSize, fmt.Sprintf("Rows per page %v", grid.PageSizes))
	opts.register(cmd.Flags())

	return cmd
}

func runList(cmd *cobra.Command, resource string, opts *ListOptions) error {
	if opts.Desc && opts.Sort == "" {
		return errors.New("--desc requires --sort")
	}

	t, err := resolveTable(resource)
	if err != nil {
		return err
	}
	q, err := opts.Query()
	if err != nil {
		return err
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	pageSize, err := pageSizeFlag(cmd, opts.PageSize, cmdCtx.Cfg.UI.PageSize)
	if err != nil {
		return err
	}

	g, err := loadGrid(cmd.Context(), cmdCtx, t, q)
	if err != nil {
		return err
	}

	if opts.Sort != "" {
		if g.ClickHeader(opts.Sort) {
			if opts.Desc {
				g.ClickHeader(opts.Sort)
			}
		} else if g.RowCount() > 0 {
			cmdCtx.Renderer.Warn(output.SortHint(opts.Sort, g.Headers()))
		}
	}
	g.SetPageSize(pageSize)
	g.SetPage(opts.Page)

	return cmdCtx.Renderer.Grid(t.Title, g)
}
