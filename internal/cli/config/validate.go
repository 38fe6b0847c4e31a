package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/grid"
)

// ErrNoServer is returned by Validate when no backend URL is configured.
var ErrNoServer = errors.New("server url is required (set server.url, OPSCONSOLE_SERVER__URL or --server)")

// validateOptions checks the settings every command depends on.
func (c *Config) validateOptions() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (use one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (use one of %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (use one of %s)", c.LogFormat, strings.Join(LogFormats, ", "))
	}
	return nil
}

// Validate checks the configuration needed to talk to the backend and to
// serve the console.
func (c *Config) Validate() error {
	if err := c.validateOptions(); err != nil {
		return err
	}
	if c.Server.URL == "" {
		return ErrNoServer
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("server url %q must be an absolute http or https URL", c.Server.URL)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port %d is out of range", c.UI.Port)
	}
	if !slices.Contains(grid.PageSizes, c.UI.PageSize) {
		return fmt.Errorf("ui.page_size %d is not one of %v", c.UI.PageSize, grid.PageSizes)
	}
	return nil
}

// APIConfig converts the server section into an api.Config.
func (c *Config) APIConfig() api.Config {
	return api.Config{
		URL:        c.Server.URL,
		ClientCert: c.Server.ClientCert,
		ClientKey:  c.Server.ClientKey,
		CACert:     c.Server.CACert,
		Timeout:    c.Server.Timeout,
	}
}
