package api

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// InventoryKind names one inventory collection on the backend.
type InventoryKind string

const (
	InventoryImages               InventoryKind = "images"
	InventoryInstances            InventoryKind = "instances"
	InventoryNetworks             InventoryKind = "networks"
	InventoryNetworkACLs          InventoryKind = "network_acls"
	InventoryNetworkAddressSets   InventoryKind = "network_address_sets"
	InventoryNetworkForwards      InventoryKind = "network_forwards"
	InventoryNetworkIntegrations  InventoryKind = "network_integrations"
	InventoryNetworkLoadBalancers InventoryKind = "network_load_balancers"
	InventoryNetworkPeers         InventoryKind = "network_peers"
	InventoryNetworkZones         InventoryKind = "network_zones"
	InventoryProfiles             InventoryKind = "profiles"
	InventoryProjects             InventoryKind = "projects"
	InventoryStorageBuckets       InventoryKind = "storage_buckets"
	InventoryStoragePools         InventoryKind = "storage_pools"
	InventoryStorageVolumes       InventoryKind = "storage_volumes"
)

// InventoryKinds lists every kind in display order.
var InventoryKinds = []InventoryKind{
	InventoryImages,
	InventoryInstances,
	InventoryNetworks,
	InventoryNetworkACLs,
	InventoryNetworkAddressSets,
	InventoryNetworkForwards,
	InventoryNetworkIntegrations,
	InventoryNetworkLoadBalancers,
	InventoryNetworkPeers,
	InventoryNetworkZones,
	InventoryProfiles,
	InventoryProjects,
	InventoryStorageBuckets,
	InventoryStoragePools,
	InventoryStorageVolumes,
}

// ParseInventoryKind validates s against the known kinds.
func ParseInventoryKind(s string) (InventoryKind, error) {
	k := InventoryKind(s)
	if !slices.Contains(InventoryKinds, k) {
		return "", fmt.Errorf("unknown inventory kind %q", s)
	}
	return k, nil
}

// path is the URL segment for the kind; the backend uses dashes.
func (k InventoryKind) path() string {
	b := []byte(k)
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// InventoryClient reads the inventory collected from clusters.
type InventoryClient interface {
	ListInventory(ctx context.Context, kind InventoryKind, filter InventoryFilter) ([]InventoryItem, error)
	GetInventoryItem(ctx context.Context, kind InventoryKind, id uuid.UUID) (InventoryItem, error)
}

// InventoryFilter narrows an inventory listing. Empty fields match all.
type InventoryFilter struct {
	Cluster string
	Server  string
	Project string
}

// InventoryItem is one object synchronised from a cluster.
type InventoryItem struct {
	UUID        uuid.UUID       `json:"uuid" yaml:"uuid"`
	Cluster     string          `json:"cluster" yaml:"cluster"`
	Server      string          `json:"server" yaml:"server"`
	ProjectName string          `json:"project_name" yaml:"project_name"`
	ParentName  string          `json:"parent_name,omitempty" yaml:"parent_name,omitempty"`
	Name        string          `json:"name" yaml:"name"`
	Object      json.RawMessage `json:"object" yaml:"-"`
	LastUpdated time.Time       `json:"last_updated" yaml:"last_updated"`
}

func (c *client) ListInventory(ctx context.Context, kind InventoryKind, filter InventoryFilter) ([]InventoryItem, error) {
	u := withQuery(c.apipath("inventory", kind.path()),
		"recursion", "1",
		"cluster", filter.Cluster,
		"server", filter.Server,
		"project", filter.Project,
	)
	var items []InventoryItem
	if err := c.get(ctx, u, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *client) GetInventoryItem(ctx context.Context, kind InventoryKind, id uuid.UUID) (InventoryItem, error) {
	var item InventoryItem
	err := c.get(ctx, c.apipath("inventory", kind.path(), id.String()), &item)
	return item, err
}
