// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/opscenter-labs/opsconsole/internal/cli/config"
)

// IsolateConfig runs the test in an empty working directory with no loaded
// configuration, so no opsconsole.yaml from the checkout leaks in.
func IsolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	return dir
}

// WriteConfig writes content to opsconsole.yaml in dir and returns its path.
func WriteConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "opsconsole.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// Result is the captured outcome of a command run.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Execute runs cmd with args and captures both output streams.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	return ExecuteContext(t, t.Context(), cmd, args...)
}

// ExecuteContext is Execute with a caller-controlled context.
func ExecuteContext(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) Result {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return Result{Stdout: out.String(), Stderr: errOut.String(), Err: err}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
