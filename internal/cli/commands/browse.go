package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opscenter-labs/opsconsole/internal/grid"
	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/tui"
)

// BrowseOptions holds options for the browse command.
type BrowseOptions struct {
	Sort     string
	Desc     bool
	PageSize int
	ResourceFlags
}

// runBrowser starts the terminal UI; tests replace it.
var runBrowser = tui.Run

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse <resource>",
		Short: "Browse a resource grid interactively",
		Long: `Open a resource in a full-screen terminal grid.

Keys:
  ←/→ or h/l     move the header focus
  enter or s     sort by the focused header (again to reverse)
  n/p            next and previous page (also pgdown/pgup)
  +/-            cycle the page size
  r              reload from the backend
  q              quit`,
		Example: `  # Browse instances
  opsconsole browse instances

  # Start sorted by last seen, newest first
  opsconsole browse servers --sort "Last seen" --desc`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Column header to sort by initially")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "Start descending (requires --sort)")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", grid.DefaultPageSize, fmt.Sprintf("Rows per page %v", grid.PageSizes))
	opts.register(cmd.Flags())

	return cmd
}

func runBrowse(cmd *cobra.Command, resource string, opts *BrowseOptions) error {
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

	state := grid.State{Column: opts.Sort, Direction: grid.Ascending, Page: 1, PageSize: pageSize}
	if opts.Desc {
		state.Direction = grid.Descending
	}

	load := func(ctx context.Context) (tables.Dataset, error) {
		cmdCtx.Logger.Debug("loading table", "table", t.Name)
		return t.Load(ctx, cmdCtx.Client, q)
	}

	m := tui.New(cmd.Context(), t.Title, load, tui.WithLocale(cmdCtx.Locale()), tui.WithState(state))
	return runBrowser(cmd.Context(), m)
}
