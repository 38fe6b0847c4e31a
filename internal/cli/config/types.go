// Package config provides configuration management for the opsconsole CLI.
//
// Values come from, lowest to highest precedence: built-in defaults, the
// opsconsole.yaml file, OPSCONSOLE_ environment variables and command-line
// flags.
package config

import "time"

// ServerConfig says how to reach the Operations Center REST API.
type ServerConfig struct {
	URL        string        `koanf:"url"`
	ClientCert string        `koanf:"client_cert"`
	ClientKey  string        `koanf:"client_key"`
	CACert     string        `koanf:"ca_cert"`
	Timeout    time.Duration `koanf:"timeout"`
}

// UIConfig holds configuration for the web console.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
	// Locale collates text columns, e.g. "en" or "de".
	Locale   string `koanf:"locale"`
	PageSize int    `koanf:"page_size"`
}

// Config holds all CLI configuration options.
type Config struct {
	Server       ServerConfig `koanf:"server"`
	UI           UIConfig     `koanf:"ui"`
	OutputFormat string       `koanf:"output"`
	Verbose      bool         `koanf:"verbose"`
	LogLevel     string       `koanf:"log_level"`
	LogFormat    string       `koanf:"log_format"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultPort      = 8765
	DefaultTimeout   = 30 * time.Second
	DefaultLocale    = "en"
	DefaultPageSize  = 20
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// ConfigFileNames are looked up, in order, in each searched directory.
var ConfigFileNames = []string{"opsconsole.yaml", "opsconsole.yml"}

// OutputFormats are the values accepted by --output.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// LogLevels are the values accepted by --log-level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// LogFormats are the values accepted by --log-format.
var LogFormats = []string{"text", "json"}

func defaults() map[string]any {
	return map[string]any{
		"server.timeout":    DefaultTimeout.String(),
		"ui.port":           DefaultPort,
		"ui.auto_open":      true,
		"ui.watch":          true,
		"ui.locale":         DefaultLocale,
		"ui.page_size":      DefaultPageSize,
		"ui.session_secret": "",
		"output":            DefaultOutput,
		"verbose":           false,
		"log_level":         DefaultLogLevel,
		"log_format":        DefaultLogFormat,
	}
}
