package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/opscenter-labs/opsconsole/internal/api/apitest"
	"github.com/opscenter-labs/opsconsole/internal/cli/config"
	"github.com/opscenter-labs/opsconsole/internal/cli/output"
	"github.com/opscenter-labs/opsconsole/internal/cli/testutil"
	"github.com/opscenter-labs/opsconsole/internal/grid"
	logtest "github.com/opscenter-labs/opsconsole/internal/testutil"
	"github.com/opscenter-labs/opsconsole/internal/tui"
)

// setupBackend points the loaded configuration at a fake backend.
func setupBackend(t *testing.T, outputMode string) *apitest.Backend {
	t.Helper()
	testutil.IsolateConfig(t)
	backend := apitest.NewBackend(t, apitest.SampleData())
	t.Setenv("OPSCONSOLE_SERVER__URL", backend.URL())
	t.Setenv("OPSCONSOLE_OUTPUT", outputMode)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return backend
}

func listJSON(t *testing.T, args ...string) output.GridPage {
	t.Helper()
	res := testutil.Execute(t, NewListCommand(), args...)
	require.NoError(t, res.Err, res.Stderr)

	var page output.GridPage
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &page))
	return page
}

func firstColumn(p output.GridPage) []string {
	out := make([]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		out = append(out, r[p.Headers[0]])
	}
	return out
}

func TestNewListCommand(t *testing.T) {
	cmd := NewListCommand()

	assert.Equal(t, "list <resource>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Note: --output and --server are global persistent flags on root
	flags := []string{"sort", "desc", "page", "page-size", "cluster", "host", "project", "channel", "token", "update"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestList_FirstPage(t *testing.T) {
	setupBackend(t, "json")

	page := listJSON(t, "servers")

	assert.Equal(t, "Servers", page.Title)
	assert.NotContains(t, page.Headers, "Actions")
	assert.Equal(t, 45, page.TotalRows)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, grid.DefaultPageSize, page.PageSize)
	require.Len(t, page.Rows, 20)
	assert.Equal(t, "server-01", page.Rows[0]["Name"])
	assert.Nil(t, page.Sort)
}

func TestList_SortAndPage(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPage  int
		wantFirst []string
		wantSort  *output.GridSort
	}{
		{
			name:      "descending by name, last page",
			args:      []string{"servers", "--sort", "Name", "--desc", "--page", "3"},
			wantPage:  3,
			wantFirst: []string{"server-05", "server-04", "server-03", "server-02", "server-01"},
			wantSort:  &output.GridSort{Column: "Name", Direction: grid.Descending},
		},
		{
			name:      "page past the end snaps to the last page",
			args:      []string{"servers", "--page", "9", "--page-size", "20"},
			wantPage:  3,
			wantFirst: []string{"server-41", "server-42", "server-43", "server-44", "server-45"},
		},
		{
			name:      "cluster filter",
			args:      []string{"servers", "--cluster", "prod"},
			wantPage:  1,
			wantFirst: []string{"server-01", "server-02", "server-03"},
		},
		{
			name:      "numeric column sorts by key",
			args:      []string{"tokens", "--sort", "Uses remaining"},
			wantPage:  1,
			wantFirst: []string{apitest.TokenB.String(), apitest.TokenA.String()},
			wantSort:  &output.GridSort{Column: "Uses remaining", Direction: grid.Ascending},
		},
		{
			name:      "seeds of a token",
			args:      []string{"seeds", "--token", apitest.TokenA.String()},
			wantPage:  1,
			wantFirst: []string{"default"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupBackend(t, "json")

			page := listJSON(t, tt.args...)

			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantFirst, firstColumn(page))
			assert.Equal(t, tt.wantSort, page.Sort)
		})
	}
}

func TestList_PageSizeFromConfig(t *testing.T) {
	setupBackend(t, "json")
	t.Setenv("OPSCONSOLE_UI__PAGE_SIZE", "50")
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	page := listJSON(t, "servers")

	assert.Equal(t, 50, page.PageSize)
	assert.Len(t, page.Rows, 45)
	assert.Equal(t, 1, page.TotalPages)
}

func TestList_Markdown(t *testing.T) {
	setupBackend(t, "auto")

	res := testutil.Execute(t, NewListCommand(), "clusters", "--sort", "Name")
	require.NoError(t, res.Err)

	testutil.AssertNoANSI(t, res.Stdout)
	testutil.AssertValidMarkdown(t, res.Stdout)
	assert.Contains(t, res.Stdout, "# Clusters")
	assert.Contains(t, res.Stdout, "Name ▲")
	assert.Contains(t, res.Stdout, "page 1 of 1 (3 rows)")
	assert.NotContains(t, res.Stdout, "Resync")
}

func TestList_InventoryShorthand(t *testing.T) {
	setupBackend(t, "auto")

	res := testutil.Execute(t, NewListCommand(), "instances")
	require.NoError(t, res.Err)

	assert.Contains(t, res.Stdout, "# Instances")
	assert.Contains(t, res.Stdout, "page 1 of 1 (0 rows)")
}

func TestList_UnsortableColumnWarns(t *testing.T) {
	setupBackend(t, "json")

	res := testutil.Execute(t, NewListCommand(), "servers", "--sort", "Nope")
	require.NoError(t, res.Err)

	assert.Contains(t, res.Stderr, `column "Nope" cannot be sorted`)
	var page output.GridPage
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &page))
	assert.Nil(t, page.Sort)
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown resource", []string{"widgets"}, "unknown table"},
		{"desc without sort", []string{"servers", "--desc"}, "--desc requires --sort"},
		{"bad page size", []string{"servers", "--page-size", "30"}, "page size 30"},
		{"bad token", []string{"seeds", "--token", "nope"}, "invalid --token"},
		{"missing parent", []string{"update-files"}, "parent resource is required"},
		{"no resource", nil, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupBackend(t, "json")

			res := testutil.Execute(t, NewListCommand(), tt.args...)
			require.Error(t, res.Err)
			assert.Contains(t, res.Err.Error(), tt.wantErr)
		})
	}
}

func TestList_BackendError(t *testing.T) {
	backend := setupBackend(t, "json")
	backend.Fail(http.MethodGet, "/1.0/provisioning/servers", http.StatusInternalServerError, "database locked")

	res := testutil.Execute(t, NewListCommand(), "servers")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to load servers")
	assert.Contains(t, res.Err.Error(), "database locked")
}

func TestList_NoServer(t *testing.T) {
	testutil.IsolateConfig(t)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	res := testutil.Execute(t, NewListCommand(), "servers")
	assert.ErrorIs(t, res.Err, config.ErrNoServer)
}

func TestResourceFlags_Query(t *testing.T) {
	f := ResourceFlags{Cluster: "prod", Host: "server-01", Project: "default", Channel: "stable", Update: apitest.UpdateA.String()}
	q, err := f.Query()
	require.NoError(t, err)

	assert.Equal(t, "prod", q.Cluster)
	assert.Equal(t, "server-01", q.Server)
	assert.Equal(t, "default", q.Project)
	assert.Equal(t, "stable", q.Channel)
	assert.Equal(t, apitest.UpdateA, q.Update)

	f = ResourceFlags{Update: "x"}
	_, err = f.Query()
	assert.ErrorContains(t, err, "invalid --update")
}

func TestCompleteResources(t *testing.T) {
	names, _ := completeResources(nil, nil, "inventory/ins")
	assert.Equal(t, []string{"inventory/instances"}, names)

	names, _ = completeResources(nil, []string{"servers"}, "")
	assert.Empty(t, names)
}

func TestBrowse_StartsWithInitialState(t *testing.T) {
	setupBackend(t, "auto")

	var started tui.Model
	runBrowser = func(_ context.Context, m tui.Model) error {
		started = m
		return nil
	}
	t.Cleanup(func() { runBrowser = tui.Run })

	res := testutil.Execute(t, NewBrowseCommand(), "servers", "--cluster", "prod", "--sort", "Name", "--desc", "--page-size", "50")
	require.NoError(t, res.Err)

	// Drive the first load the way bubbletea would.
	loaded, _ := started.Update(started.Init()())
	g := loaded.(tui.Model).Grid()
	require.NotNil(t, g)
	assert.Equal(t, grid.State{Column: "Name", Direction: grid.Descending, Page: 1, PageSize: 50}, g.State())
	assert.Equal(t, 3, g.RowCount())
	assert.Equal(t, "server-03", g.Visible()[0][0].Content)
}

func TestBrowse_Errors(t *testing.T) {
	setupBackend(t, "auto")
	runBrowser = func(context.Context, tui.Model) error {
		t.Fatal("browser should not start")
		return nil
	}
	t.Cleanup(func() { runBrowser = tui.Run })

	res := testutil.Execute(t, NewBrowseCommand(), "servers", "--desc")
	assert.ErrorContains(t, res.Err, "--desc requires --sort")

	res = testutil.Execute(t, NewBrowseCommand(), "nothing")
	assert.ErrorContains(t, res.Err, "unknown table")
}

func TestServe_OpensBrowserAndStops(t *testing.T) {
	setupBackend(t, "auto")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	opened := make(chan string, 1)
	openURL = func(url string) {
		opened <- url
		resp, err := http.Get(url + "/clusters") //nolint:noctx
		if err == nil {
			_ = resp.Body.Close()
		}
		cancel()
	}
	t.Cleanup(func() { openURL = openBrowser })

	res := testutil.ExecuteContext(t, ctx, NewServeCommand(), "--port", "0", "--watch=false")
	require.NoError(t, res.Err)

	url := <-opened
	assert.Contains(t, url, "http://localhost:")
	assert.Contains(t, res.Stdout, "Operations Center console on "+url)
}

func TestServe_NoBrowser(t *testing.T) {
	setupBackend(t, "auto")

	ctx, cancel := context.WithCancel(t.Context())
	openURL = func(string) { t.Error("browser opened with --no-browser") }
	t.Cleanup(func() { openURL = openBrowser })

	done := make(chan testutil.Result, 1)
	go func() {
		done <- testutil.ExecuteContext(t, ctx, NewServeCommand(), "--port", "0", "--no-browser")
	}()
	cancel()

	res := <-done
	assert.NoError(t, res.Err)
}

func TestReloadSettings(t *testing.T) {
	backend := setupBackend(t, "text")
	path := testutil.WriteConfig(t, t.TempDir(), "ui:\n  locale: de\n  page_size: 50\n")

	settings, err := reloadSettings(NewServeCommand(), path)()
	require.NoError(t, err)
	assert.Equal(t, "de", settings.Locale)
	assert.Equal(t, 50, settings.PageSize)

	clusters, err := settings.Client.ListClusters(t.Context())
	require.NoError(t, err)
	assert.Len(t, clusters, 3)
	assert.Contains(t, backend.Requests(), "GET /1.0/provisioning/clusters?recursion=1")
}

func TestReloadSettings_InvalidConfig(t *testing.T) {
	setupBackend(t, "text")
	path := testutil.WriteConfig(t, t.TempDir(), "ui:\n  page_size: 30\n")

	_, err := reloadSettings(NewServeCommand(), path)()
	assert.ErrorContains(t, err, "page_size")
}

func TestGenerateSessionSecret(t *testing.T) {
	a, err := generateSessionSecret()
	require.NoError(t, err)
	b, err := generateSessionSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestCommandContext_Locale(t *testing.T) {
	logger, logs := logtest.NewLogRecorder()
	cmdCtx := &CommandContext{Cfg: &config.Config{UI: config.UIConfig{Locale: "de"}}, Logger: logger}
	assert.Equal(t, "de", cmdCtx.Locale().String())
	assert.Empty(t, logs.Messages(slog.LevelWarn))

	cmdCtx.Cfg.UI.Locale = "not a locale!"
	assert.Equal(t, language.English, cmdCtx.Locale())
	assert.Equal(t, []string{"invalid locale, using en"}, logs.Messages(slog.LevelWarn))
	v, ok := logs.Attr("invalid locale, using en", "locale")
	require.True(t, ok)
	assert.Equal(t, "not a locale!", v.String())
}
