package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscenter-labs/opsconsole/internal/grid"
)

func serverGrid(t *testing.T, n int) *grid.Grid[string] {
	t.Helper()
	rows := make([]grid.Row[string], n)
	for i := range rows {
		name := fmt.Sprintf("server-%02d", i+1)
		rows[i] = grid.Row[string]{
			{Content: name, Key: grid.Text(name)},
			{Content: fmt.Sprint(n - i), Key: grid.Number(float64(n - i))},
		}
	}
	g, err := grid.New([]string{"Name", "CPU cores"}, rows)
	require.NoError(t, err)
	return g
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{ModeAuto, ModeMarkdown},
		{"", ModeMarkdown},
		{ModeText, ModeText},
		{ModeJSON, ModeJSON},
		{ModeYAML, ModeYAML},
	}
	for _, tt := range tests {
		r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode %q", tt.mode)
		assert.False(t, r.IsTTY())
	}
}

func TestGrid_Text(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)
	g := serverGrid(t, 45)
	g.ClickHeader("CPU cores")

	require.NoError(t, r.Grid("Servers", g))

	out := buf.String()
	assert.Contains(t, out, "Servers")
	assert.Contains(t, out, "CPU cores ▲")
	assert.Contains(t, out, "server-45", "lowest core count first")
	assert.NotContains(t, out, "server-01")
	assert.Contains(t, out, "page 1 of 3 (45 rows)")
	assert.NotContains(t, out, "\x1b[", "no escape codes off a terminal")
}

func TestGrid_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeText)

	require.NoError(t, r.Grid("Servers", serverGrid(t, 0)))

	assert.Contains(t, buf.String(), "(no rows)")
	assert.Contains(t, buf.String(), "page 1 of 1 (0 rows)")
}

func TestGrid_Markdown(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeAuto)
	g := serverGrid(t, 3)

	require.NoError(t, r.Grid("Servers", g))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Servers\n"))
	assert.Contains(t, out, "| Name")
	assert.Contains(t, out, "server-02")
	assert.True(t, strings.HasSuffix(out, "page 1 of 1 (3 rows)\n"))
}

func TestGrid_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)
	g := serverGrid(t, 45)
	g.ClickHeader("Name")
	g.ClickHeader("Name")
	g.SetPage(3)

	require.NoError(t, r.Grid("Servers", g))

	var page GridPage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Equal(t, "Servers", page.Title)
	assert.Equal(t, []string{"Name", "CPU cores"}, page.Headers)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 45, page.TotalRows)
	require.NotNil(t, page.Sort)
	assert.Equal(t, grid.Descending, page.Sort.Direction)
	require.Len(t, page.Rows, 5)
	assert.Equal(t, "server-05", page.Rows[0]["Name"])
	assert.Equal(t, "server-01", page.Rows[4]["Name"])
}

func TestGrid_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeYAML)

	require.NoError(t, r.Grid("Servers", serverGrid(t, 2)))

	out := buf.String()
	assert.Contains(t, out, "title: Servers")
	assert.Contains(t, out, "total_rows: 2")
	assert.Contains(t, out, "Name: server-01")
	assert.NotContains(t, out, "sort:")
}

func TestHeaderAndWarn(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Header(2, "Details")
	r.Muted("none")
	r.Warn("careful")

	assert.Equal(t, "## Details\nnone\n", out.String())
	assert.Equal(t, "Warning: careful\n", errOut.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# A", FormatHeader(0, "A"))
	assert.Equal(t, "### A", FormatHeader(3, "A"))
	assert.Equal(t, "###### A", FormatHeader(9, "A"))
}
