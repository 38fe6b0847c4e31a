package apitest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
)

// Epoch is the base timestamp of every sample record.
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// Sample token and update IDs, stable across runs.
var (
	TokenA  = uuid.MustParse("7a3c5b1e-2f44-4c3a-9d7e-5e6f8a9b0c11")
	TokenB  = uuid.MustParse("0b9e2d4f-6a71-4e8b-8c2d-1f3a5b7c9d22")
	UpdateA = uuid.MustParse("c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e55")
	UpdateB = uuid.MustParse("f0e1d2c3-b4a5-4968-8776-655443322166")
)

// SampleData returns a small but complete backend state. It carries 45
// servers so listings span three pages at the default page size.
func SampleData() Data {
	d := Data{
		Clusters: []api.Cluster{
			{Name: "prod", ConnectionURL: "https://prod.example:8443", Status: "ready", ServerNames: []string{"server-01", "server-02", "server-03"}, LastUpdated: Epoch},
			{Name: "edge", ConnectionURL: "https://edge.example:8443", Status: "ready", ServerNames: []string{"server-04"}, LastUpdated: Epoch.Add(time.Hour)},
			{Name: "lab", ConnectionURL: "https://lab.example:8443", Status: "offline", ServerNames: []string{}, LastUpdated: Epoch.Add(-time.Hour)},
		},
		Tokens: []api.Token{
			{UUID: TokenA, UsesRemaining: 10, ExpireAt: Epoch.AddDate(0, 1, 0), Description: "rack A"},
			{UUID: TokenB, UsesRemaining: 2, ExpireAt: Epoch.AddDate(0, 0, 7), Description: "lab"},
		},
		Seeds: map[uuid.UUID][]api.TokenSeed{
			TokenA: {{Name: "default", Description: "default seed", Public: true, Seeds: map[string]any{"install": map[string]any{"force_install": true}}, LastUpdated: Epoch}},
		},
		Updates: []api.Update{
			{UUID: UpdateA, Origin: "linuxcontainers.org", Version: "202503010000", PublishedAt: Epoch, Severity: "none", Channels: []string{"stable"}, Status: "ready"},
			{UUID: UpdateB, Origin: "linuxcontainers.org", Version: "202502150000", PublishedAt: Epoch.AddDate(0, 0, -14), Severity: "high", Channels: []string{"stable", "testing"}, Status: "ready"},
		},
		Files: map[uuid.UUID][]api.UpdateFile{
			UpdateA: {
				{Filename: "os-image.img.gz", Size: 912_000_000, Component: "os", Type: "image-raw", Architecture: "x86_64"},
				{Filename: "os-image.iso.gz", Size: 950_000_000, Component: "os", Type: "image-iso", Architecture: "x86_64"},
			},
		},
		Channels: []api.Channel{
			{Name: "stable", Description: "Production updates", LastUpdated: Epoch},
			{Name: "testing", Description: "Early access", LastUpdated: Epoch},
		},
		Templates: []api.ClusterTemplate{
			{
				Name:                  "small",
				Description:           "Three node cluster",
				ServiceConfigTemplate: "lvm: {{ .storage }}",
				Variables:             map[string]api.TemplateVariable{"storage": {Description: "Storage driver", DefaultValue: "lvm"}},
				LastUpdated:           Epoch,
			},
		},
		Inventory: map[api.InventoryKind][]api.InventoryItem{},
		Network:   api.SystemNetwork{RestServerAddress: "[::]:7443"},
		Security:  api.SystemSecurity{TrustedTLSClientCertFingerprints: []string{"abc123"}},
		Source:    api.SystemUpdates{Source: "https://images.linuxcontainers.org/os"},
		Settings:  api.SystemSettings{LogLevel: "info"},
	}

	for i := 1; i <= 45; i++ {
		cluster := ""
		switch {
		case i <= 3:
			cluster = "prod"
		case i == 4:
			cluster = "edge"
		}
		d.Servers = append(d.Servers, api.Server{
			Name:          fmt.Sprintf("server-%02d", i),
			Type:          api.ServerTypeIncus,
			Cluster:       cluster,
			ConnectionURL: fmt.Sprintf("https://10.0.0.%d:8443", i),
			Status:        api.ServerStatusReady,
			Hardware:      api.HardwareData{CPUCores: 4 + i%4*4, MemoryBytes: int64(8+i%3*8) << 30},
			LastUpdated:   Epoch.Add(time.Duration(i) * time.Minute),
			LastSeen:      Epoch.Add(time.Duration(i) * time.Minute),
		})
	}

	for i, name := range []string{"web", "db", "cache"} {
		obj, _ := json.Marshal(map[string]any{"name": name, "status": "Running"})
		d.Inventory[api.InventoryInstances] = append(d.Inventory[api.InventoryInstances], api.InventoryItem{
			UUID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("instance/"+name)),
			Cluster:     []string{"prod", "prod", "edge"}[i],
			Server:      fmt.Sprintf("server-%02d", i+1),
			ProjectName: "default",
			Name:        name,
			Object:      obj,
			LastUpdated: Epoch,
		})
	}
	d.Inventory[api.InventoryProjects] = []api.InventoryItem{
		{UUID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("project/default")), Cluster: "prod", Name: "default", ProjectName: "default", LastUpdated: Epoch},
	}

	return d
}
