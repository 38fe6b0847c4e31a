package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/cli/config"
	"github.com/opscenter-labs/opsconsole/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Client   api.Client
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a backend client and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutClient(cmd)
	if err := cmdCtx.Cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := api.NewClient(cmdCtx.Cfg.APIConfig())
	if err != nil {
		return nil, err
	}
	cmdCtx.Client = client
	return cmdCtx, nil
}

// NewCommandContextWithoutClient creates a CommandContext without a client.
// Useful for commands that never reach the backend.
func NewCommandContextWithoutClient(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Locale is the collation locale from the ui section, English when unset
// or malformed.
func (c *CommandContext) Locale() language.Tag {
	tag, err := language.Parse(c.Cfg.UI.Locale)
	if err != nil {
		c.Logger.Warn("invalid locale, using en", "locale", c.Cfg.UI.Locale, "error", err)
		return language.English
	}
	return tag
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise loads defaults,
// the config file and the environment without flags.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	if cfg, err := config.LoadConfig("", nil); err == nil {
		return cfg
	}
	return &config.Config{
		Server: config.ServerConfig{Timeout: config.DefaultTimeout},
		UI: config.UIConfig{
			Port:     config.DefaultPort,
			AutoOpen: true,
			Watch:    true,
			Locale:   config.DefaultLocale,
			PageSize: config.DefaultPageSize,
		},
		OutputFormat: config.DefaultOutput,
		LogLevel:     config.DefaultLogLevel,
		LogFormat:    config.DefaultLogFormat,
	}
}
