// Package cli provides the command-line interface for the Operations Center console.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opscenter-labs/opsconsole/internal/cli/commands"
	"github.com/opscenter-labs/opsconsole/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "opsconsole",
		Short: "opsconsole - Operations Center admin console",
		Long: `opsconsole is the admin console for an Operations Center.

It serves a web console and prints or browses the same sortable,
paginated resource grids in the terminal.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if cfg.Verbose && !cmd.Flags().Changed("log-level") {
				level = "debug"
			}
			logger := config.NewLogger(cmd.ErrOrStderr(), level, cfg.LogFormat)
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if cfg.Verbose && cfg.ConfigFile != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.ConfigFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Operations Center admin console
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./opsconsole.yaml)")
	rootCmd.PersistentFlags().String("server", "", "Operations Center URL, e.g. https://ops.example:8443")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format ("+strings.Join(config.OutputFormats, "|")+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level ("+strings.Join(config.LogLevels, "|")+")")
	rootCmd.PersistentFlags().String("log-format", "", "Log format ("+strings.Join(config.LogFormats, "|")+")")

	// Register completion for enum flags
	for flag, values := range map[string][]string{
		"output":     config.OutputFormats,
		"log-level":  config.LogLevels,
		"log-format": config.LogFormats,
	} {
		_ = rootCmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewBrowseCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for opsconsole.

To load completions:

Bash:
  $ source <(opsconsole completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ opsconsole completion bash > /etc/bash_completion.d/opsconsole
  # macOS:
  $ opsconsole completion bash > $(brew --prefix)/etc/bash_completion.d/opsconsole

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ opsconsole completion zsh > "${fpath[1]}/_opsconsole"

Fish:
  $ opsconsole completion fish | source

  # To load completions for each session, execute once:
  $ opsconsole completion fish > ~/.config/fish/completions/opsconsole.fish

PowerShell:
  PS> opsconsole completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
