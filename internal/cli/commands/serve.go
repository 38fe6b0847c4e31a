package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/cli/config"
	"github.com/opscenter-labs/opsconsole/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// openURL opens the console in a browser; tests replace it.
var openURL = openBrowser

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the Operations Center web console",
		Long: `Start a local web server providing the Operations Center console.

The console provides:
- Sortable, paginated grids for clusters, servers, tokens, updates,
  channels, templates and inventory
- Create, edit, rename and delete forms
- System settings
- Grids that refresh when a resource changes
- Reloading open pages when the configuration file changes`,
		Example: `  # Start the console on the default port
  opsconsole serve --server https://ops.example:8443

  # Start on a custom port
  opsconsole serve --port 3000

  # Start without auto-opening the browser
  opsconsole serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Refresh open pages when the config file changes")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable the live-reload endpoints used during development")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	// --port and --watch reach cfg.UI through the config loader; this
	// covers commands run without it.
	port := cfg.UI.Port
	if cmd.Flags().Changed("port") {
		port = opts.Port
	}
	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}
	autoOpen := cfg.UI.AutoOpen && !opts.NoBrowser

	secret := cfg.UI.SessionSecret
	if secret == "" {
		secret, err = generateSessionSecret()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	server := ui.NewServer(ui.Config{
		Client:        cmdCtx.Client,
		Port:          port,
		Watch:         watch,
		ConfigFile:    cfg.ConfigFile,
		SessionSecret: secret,
		Logger:        cmdCtx.Logger,
		Locale:        cfg.UI.Locale,
		PageSize:      cfg.UI.PageSize,
		Dev:           opts.Dev,
		Reload:        reloadSettings(cmd, cfg.ConfigFile),
		OnListen: func(url string) {
			_, _ = fmt.Fprintf(out, "Operations Center console on %s\n", url)
			_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")
			if autoOpen {
				go openURL(url)
			}
		},
	})

	return server.Serve(cmd.Context())
}

// reloadSettings re-reads cfgFile with the command's flags still applied
// and builds a fresh backend client from it.
func reloadSettings(cmd *cobra.Command, cfgFile string) func() (ui.Settings, error) {
	return func() (ui.Settings, error) {
		cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
		if err != nil {
			return ui.Settings{}, err
		}
		if err := cfg.Validate(); err != nil {
			return ui.Settings{}, err
		}
		client, err := api.NewClient(cfg.APIConfig())
		if err != nil {
			return ui.Settings{}, err
		}
		return ui.Settings{Client: client, Locale: cfg.UI.Locale, PageSize: cfg.UI.PageSize}, nil
	}
}

// generateSessionSecret returns a random key for the flash cookie store.
// Flash cookies from an earlier run become unreadable, which only drops
// pending flash messages.
func generateSessionSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
