package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display opsconsole version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "opsconsole v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s with %s\n", commit, date, runtime.Version())
		},
	}
}
