package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/api/apitest"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     api.Config
		wantErr bool
	}{
		{name: "empty url", cfg: api.Config{}, wantErr: true},
		{name: "relative url", cfg: api.Config{URL: "operations-center:7443"}, wantErr: true},
		{name: "cert without key", cfg: api.Config{URL: "https://oc.local", ClientCert: "client.crt"}, wantErr: true},
		{name: "https", cfg: api.Config{URL: "https://oc.local:7443/"}},
		{name: "http with timeout", cfg: api.Config{URL: "http://127.0.0.1:7443", Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := api.NewClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, api.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNewClient_MissingCAFile(t *testing.T) {
	_, err := api.NewClient(api.Config{
		URL:    "https://oc.local",
		CACert: filepath.Join(t.TempDir(), "missing.crt"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read ca certificate")
}

func TestNewClient_CAFileWithoutCertificates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.crt")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0600))

	_, err := api.NewClient(api.Config{URL: "https://oc.local", CACert: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
}

func TestClusters_CRUD(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	clusters, err := c.ListClusters(ctx)
	require.NoError(t, err)
	require.Len(t, clusters, 3)
	assert.Equal(t, "prod", clusters[0].Name)
	assert.Equal(t, []string{"server-01", "server-02", "server-03"}, clusters[0].ServerNames)

	require.NoError(t, c.CreateCluster(ctx, api.ClusterPost{Name: "new", ServerNames: []string{"server-10"}}))
	got, err := c.GetCluster(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	err = c.CreateCluster(ctx, api.ClusterPost{Name: "new"})
	require.Error(t, err)
	assert.True(t, api.IsConflict(err))

	require.NoError(t, c.RenameCluster(ctx, "new", "renamed"))
	_, err = c.GetCluster(ctx, "new")
	assert.True(t, api.IsNotFound(err))

	require.NoError(t, c.ResyncClusterInventory(ctx, "renamed"))
	require.NoError(t, c.DeleteCluster(ctx, "renamed"))

	clusters, err = c.ListClusters(ctx)
	require.NoError(t, err)
	assert.Len(t, clusters, 3)

	assert.Contains(t, backend.Requests(), "GET /1.0/provisioning/clusters?recursion=1")
	assert.Contains(t, backend.Requests(), "POST /1.0/provisioning/clusters/renamed/:resync-inventory")
}

func TestServers_UpdateRenameDelete(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	servers, err := c.ListServers(ctx)
	require.NoError(t, err)
	assert.Len(t, servers, 45)

	require.NoError(t, c.UpdateServer(ctx, "server-01", api.ServerPut{PublicConnectionURL: "https://public:8443"}))
	s, err := c.GetServer(ctx, "server-01")
	require.NoError(t, err)
	assert.Equal(t, "https://public:8443", s.PublicConnectionURL)

	err = c.RenameServer(ctx, "server-01", "server-02")
	assert.True(t, api.IsConflict(err))

	require.NoError(t, c.RenameServer(ctx, "server-01", "primary"))
	require.NoError(t, c.DeleteServer(ctx, "primary"))
	_, err = c.GetServer(ctx, "primary")
	assert.True(t, api.IsNotFound(err))
}

func TestTokens_AndSeeds(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	tok, err := c.GetToken(ctx, apitest.TokenA)
	require.NoError(t, err)
	assert.Equal(t, 10, tok.UsesRemaining)

	require.NoError(t, c.UpdateToken(ctx, apitest.TokenA, api.TokenPut{UsesRemaining: 3, Description: "rack A"}))
	tok, err = c.GetToken(ctx, apitest.TokenA)
	require.NoError(t, err)
	assert.Equal(t, 3, tok.UsesRemaining)

	seeds, err := c.ListTokenSeeds(ctx, apitest.TokenA)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, "default", seeds[0].Name)

	require.NoError(t, c.CreateTokenSeed(ctx, apitest.TokenA, api.TokenSeedPost{Name: "custom"}))
	require.NoError(t, c.DeleteTokenSeed(ctx, apitest.TokenA, "default"))
	seeds, err = c.ListTokenSeeds(ctx, apitest.TokenA)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, "custom", seeds[0].Name)

	require.NoError(t, c.CreateToken(ctx, api.TokenPut{UsesRemaining: 1, Description: "fresh"}))
	tokens, err := c.ListTokens(ctx)
	require.NoError(t, err)
	assert.Len(t, tokens, 3)

	require.NoError(t, c.DeleteToken(ctx, apitest.TokenB))
	_, err = c.GetToken(ctx, apitest.TokenB)
	assert.True(t, api.IsNotFound(err))

	_, err = c.GetToken(ctx, uuid.New())
	assert.True(t, api.IsNotFound(err))
}

func TestUpdates(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	updates, err := c.ListUpdates(ctx)
	require.NoError(t, err)
	assert.Len(t, updates, 2)

	u, err := c.GetUpdate(ctx, apitest.UpdateB)
	require.NoError(t, err)
	assert.Equal(t, "high", u.Severity)

	files, err := c.ListUpdateFiles(ctx, apitest.UpdateA)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = c.ListUpdateFiles(ctx, apitest.UpdateB)
	require.NoError(t, err)
	assert.Empty(t, files)

	require.NoError(t, c.RefreshUpdates(ctx))
	assert.Contains(t, backend.Requests(), "POST /1.0/provisioning/updates/:refresh")
}

func TestChannelsAndTemplates(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	require.NoError(t, c.CreateChannel(ctx, api.ChannelPost{Name: "nightly", Description: "Every build"}))
	require.NoError(t, c.UpdateChannel(ctx, "nightly", api.ChannelPut{Description: "Nightly builds"}))
	ch, err := c.GetChannel(ctx, "nightly")
	require.NoError(t, err)
	assert.Equal(t, "Nightly builds", ch.Description)
	require.NoError(t, c.DeleteChannel(ctx, "nightly"))

	channels, err := c.ListChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, channels, 2)

	post := api.ClusterTemplatePost{Name: "large"}
	post.Description = "Big cluster"
	post.Variables = map[string]api.TemplateVariable{"nodes": {Description: "Node count", DefaultValue: "5"}}
	require.NoError(t, c.CreateClusterTemplate(ctx, post))

	require.NoError(t, c.UpdateClusterTemplate(ctx, "large", api.ClusterTemplatePut{Description: "Bigger"}))
	require.NoError(t, c.RenameClusterTemplate(ctx, "large", "xl"))
	tmpl, err := c.GetClusterTemplate(ctx, "xl")
	require.NoError(t, err)
	assert.Equal(t, "Bigger", tmpl.Description)

	require.NoError(t, c.DeleteClusterTemplate(ctx, "xl"))
	tmpls, err := c.ListClusterTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, tmpls, 1)
}

func TestInventory_Filter(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	all, err := c.ListInventory(ctx, api.InventoryInstances, api.InventoryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	prod, err := c.ListInventory(ctx, api.InventoryInstances, api.InventoryFilter{Cluster: "prod"})
	require.NoError(t, err)
	assert.Len(t, prod, 2)

	item, err := c.GetInventoryItem(ctx, api.InventoryInstances, all[0].UUID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Name, item.Name)
	assert.JSONEq(t, `{"name":"web","status":"Running"}`, string(item.Object))

	empty, err := c.ListInventory(ctx, api.InventoryNetworkACLs, api.InventoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.Contains(t, backend.Requests(), "GET /1.0/inventory/instances?cluster=prod&recursion=1")
	assert.Contains(t, backend.Requests(), "GET /1.0/inventory/network-acls?recursion=1")
}

func TestParseInventoryKind(t *testing.T) {
	k, err := api.ParseInventoryKind("storage_volumes")
	require.NoError(t, err)
	assert.Equal(t, api.InventoryStorageVolumes, k)

	_, err = api.ParseInventoryKind("volumes")
	assert.Error(t, err)
}

func TestSystem(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	c := backend.Client(t)
	ctx := context.Background()

	network, err := c.GetSystemNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[::]:7443", network.RestServerAddress)

	require.NoError(t, c.UpdateSystemNetwork(ctx, api.SystemNetwork{RestServerAddress: "[::]:8443"}))
	require.NoError(t, c.UpdateSystemSecurity(ctx, api.SystemSecurity{TrustedTLSClientCertFingerprints: []string{"a", "b"}}))
	require.NoError(t, c.UpdateSystemUpdates(ctx, api.SystemUpdates{Source: "https://mirror", FilterExpression: "true"}))
	require.NoError(t, c.UpdateSystemSettings(ctx, api.SystemSettings{LogLevel: "debug"}))

	network, err = c.GetSystemNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[::]:8443", network.RestServerAddress)

	security, err := c.GetSystemSecurity(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, security.TrustedTLSClientCertFingerprints)

	source, err := c.GetSystemUpdates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "true", source.FilterExpression)

	settings, err := c.GetSystemSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestInjectedFailure(t *testing.T) {
	backend := apitest.NewBackend(t, apitest.SampleData())
	backend.Fail(http.MethodGet, "/1.0/provisioning/clusters", http.StatusInternalServerError, "database locked")
	c := backend.Client(t)

	_, err := c.ListClusters(context.Background())
	require.Error(t, err)

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code())
	assert.Contains(t, err.Error(), "database locked")
}

func TestRequestCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c, err := api.NewClient(api.Config{URL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.ListClusters(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
