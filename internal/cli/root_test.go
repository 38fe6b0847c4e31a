package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscenter-labs/opsconsole/internal/api/apitest"
	"github.com/opscenter-labs/opsconsole/internal/cli/config"
	"github.com/opscenter-labs/opsconsole/internal/cli/output"
	"github.com/opscenter-labs/opsconsole/internal/cli/testutil"
)

func TestRootCmd_Help(t *testing.T) {
	testutil.IsolateConfig(t)

	res := testutil.Execute(t, NewRootCmd(), "--help")
	require.NoError(t, res.Err)

	for _, want := range []string{"serve", "list", "browse", "version", "completion", "--server", "--output"} {
		assert.Contains(t, res.Stdout, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	res := testutil.Execute(t, NewRootCmd(), "--version")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "opsconsole "+Version)
}

func TestRootCmd_ListThroughFlags(t *testing.T) {
	testutil.IsolateConfig(t)
	backend := apitest.NewBackend(t, apitest.SampleData())

	res := testutil.Execute(t, NewRootCmd(), "list", "servers", "--server", backend.URL(), "-o", "json", "--sort", "CPU cores")
	require.NoError(t, res.Err, res.Stderr)

	var page output.GridPage
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &page))
	assert.Equal(t, 45, page.TotalRows)
	require.NotNil(t, page.Sort)
	assert.Equal(t, "CPU cores", page.Sort.Column)

	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, backend.URL(), cfg.Server.URL)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	backend := apitest.NewBackend(t, apitest.SampleData())
	testutil.WriteConfig(t, dir, "server:\n  url: "+backend.URL()+"\noutput: markdown\nverbose: true\n")

	res := testutil.Execute(t, NewRootCmd(), "list", "clusters")
	require.NoError(t, res.Err, res.Stderr)

	assert.Contains(t, res.Stdout, "# Clusters")
	assert.Contains(t, res.Stdout, "page 1 of 1 (3 rows)")
	assert.Contains(t, res.Stderr, "Using config file:")
}

func TestRootCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"invalid output", []string{"list", "servers", "-o", "xml"}, `invalid output "xml"`},
		{"invalid log level", []string{"list", "servers", "--log-level", "loud"}, `invalid log_level "loud"`},
		{"missing server", []string{"list", "servers"}, "server url is required"},
		{"relative server", []string{"list", "servers", "--server", "ops.example"}, "absolute http or https URL"},
		{"unknown command", []string{"explode"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.IsolateConfig(t)

			res := testutil.Execute(t, NewRootCmd(), tt.args...)
			require.Error(t, res.Err)
			assert.Contains(t, res.Err.Error(), tt.wantErr)
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "bash completion"},
		{"zsh", "#compdef opsconsole"},
		{"fish", "fish completion"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			res := testutil.Execute(t, NewRootCmd(), "completion", tt.shell)
			require.NoError(t, res.Err)
			assert.Contains(t, res.Stdout, tt.want)
		})
	}

	res := testutil.Execute(t, NewRootCmd(), "completion", "tcsh")
	assert.Error(t, res.Err)
}
