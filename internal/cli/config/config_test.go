package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "opsconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("server", "", "server url")
	flags.Int("port", 0, "port")
	flags.Bool("watch", true, "watch")
	flags.StringP("output", "o", "", "output")
	flags.String("log-level", "", "log level")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.True(t, cfg.UI.AutoOpen)
	assert.True(t, cfg.UI.Watch)
	assert.Equal(t, DefaultLocale, cfg.UI.Locale)
	assert.Equal(t, DefaultPageSize, cfg.UI.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.Server.Timeout)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.ConfigFile)
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, `server:
  url: https://oc.example:7443
  client_cert: client.crt
  client_key: client.key
  timeout: 5s
ui:
  port: 9000
  auto_open: false
  locale: de
  page_size: 50
log_level: debug
log_format: json
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://oc.example:7443", cfg.Server.URL)
	assert.Equal(t, "client.crt", cfg.Server.ClientCert)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
	assert.True(t, cfg.UI.Watch, "unset keys keep their defaults")
	assert.Equal(t, "de", cfg.UI.Locale)
	assert.Equal(t, 50, cfg.UI.PageSize)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfig_SearchesParents(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	path := writeConfig(t, root, "ui:\n  port: 9100\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.UI.Port)
	assert.Equal(t, filepath.Base(path), filepath.Base(cfg.ConfigFile))
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		flag     string
		wantURL  string
		wantPort int
	}{
		{name: "file only", wantURL: "https://file.example", wantPort: 9000},
		{name: "env over file", env: "https://env.example", wantURL: "https://env.example", wantPort: 9000},
		{name: "flag over env", env: "https://env.example", flag: "https://flag.example", wantURL: "https://flag.example", wantPort: 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), "server:\n  url: https://file.example\nui:\n  port: 9000\n")
			if tt.env != "" {
				t.Setenv("OPSCONSOLE_SERVER__URL", tt.env)
			}

			flags := testFlags()
			if tt.flag != "" {
				require.NoError(t, flags.Set("server", tt.flag))
			}

			cfg, err := LoadConfig(path, flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.Server.URL)
			assert.Equal(t, tt.wantPort, cfg.UI.Port, "unset --port must not override the file")
		})
	}
}

func TestLoadConfig_FlagKeyMapping(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := testFlags()
	require.NoError(t, flags.Set("port", "9999"))
	require.NoError(t, flags.Set("watch", "false"))
	require.NoError(t, flags.Set("log-level", "debug"))
	require.NoError(t, flags.Set("output", "json"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.UI.Port)
	assert.False(t, cfg.UI.Watch)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_EnvNesting(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("OPSCONSOLE_UI__PAGE_SIZE", "100")
	t.Setenv("OPSCONSOLE_SERVER__TIMEOUT", "1m")
	t.Setenv("OPSCONSOLE_LOG_LEVEL", "error")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.UI.PageSize)
	assert.Equal(t, time.Minute, cfg.Server.Timeout)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_InvalidOptions(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"output", "output: html\n", "invalid output"},
		{"log level", "log_level: trace\n", "invalid log_level"},
		{"log format", "log_format: xml\n", "invalid log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), tt.content)

			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:       ServerConfig{URL: "https://oc.example:7443"},
			UI:           UIConfig{Port: 8765, PageSize: 20},
			OutputFormat: "auto",
			LogLevel:     "warn",
			LogFormat:    "text",
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing url", mutate: func(c *Config) { c.Server.URL = "" }, errSubstr: "server url is required"},
		{name: "relative url", mutate: func(c *Config) { c.Server.URL = "oc.example" }, errSubstr: "absolute http or https"},
		{name: "port", mutate: func(c *Config) { c.UI.Port = 70000 }, errSubstr: "out of range"},
		{name: "page size", mutate: func(c *Config) { c.UI.PageSize = 30 }, errSubstr: "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestAPIConfig(t *testing.T) {
	cfg := &Config{Server: ServerConfig{URL: "https://oc", ClientCert: "c", ClientKey: "k", CACert: "ca", Timeout: time.Second}}
	api := cfg.APIConfig()

	assert.Equal(t, "https://oc", api.URL)
	assert.Equal(t, "c", api.ClientCert)
	assert.Equal(t, "k", api.ClientKey)
	assert.Equal(t, "ca", api.CACert)
	assert.Equal(t, time.Second, api.Timeout)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", "text")
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
