package api

import (
	"context"
	"time"
)

// ClusterClient manages provisioned clusters.
type ClusterClient interface {
	ListClusters(ctx context.Context) ([]Cluster, error)
	GetCluster(ctx context.Context, name string) (Cluster, error)
	CreateCluster(ctx context.Context, cluster ClusterPost) error
	RenameCluster(ctx context.Context, name, newName string) error
	DeleteCluster(ctx context.Context, name string) error
	ResyncClusterInventory(ctx context.Context, name string) error
}

// Cluster is a provisioned Incus cluster.
type Cluster struct {
	Name          string    `json:"name" yaml:"name"`
	ConnectionURL string    `json:"connection_url" yaml:"connection_url"`
	Certificate   string    `json:"certificate" yaml:"certificate"`
	Fingerprint   string    `json:"fingerprint" yaml:"fingerprint"`
	Status        string    `json:"status" yaml:"status"`
	ServerNames   []string  `json:"server_names" yaml:"server_names"`
	LastUpdated   time.Time `json:"last_updated" yaml:"last_updated"`
}

// ClusterPost creates a cluster out of already registered servers.
type ClusterPost struct {
	Name                  string         `json:"name"`
	ServerNames           []string       `json:"server_names"`
	ServerType            string         `json:"server_type"`
	ServicesConfig        map[string]any `json:"services_config,omitempty"`
	ApplicationSeedConfig map[string]any `json:"application_seed_config,omitempty"`
	ClusterTemplate       string         `json:"cluster_template,omitempty"`
}

// NamePost renames a resource.
type NamePost struct {
	Name string `json:"name"`
}

func (c *client) ListClusters(ctx context.Context) ([]Cluster, error) {
	var clusters []Cluster
	if err := c.get(ctx, withQuery(c.apipath("provisioning", "clusters"), "recursion", "1"), &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

func (c *client) GetCluster(ctx context.Context, name string) (Cluster, error) {
	var cluster Cluster
	err := c.get(ctx, c.apipath("provisioning", "clusters", name), &cluster)
	return cluster, err
}

func (c *client) CreateCluster(ctx context.Context, cluster ClusterPost) error {
	return c.post(ctx, c.apipath("provisioning", "clusters"), cluster)
}

func (c *client) RenameCluster(ctx context.Context, name, newName string) error {
	return c.post(ctx, c.apipath("provisioning", "clusters", name), NamePost{Name: newName})
}

func (c *client) DeleteCluster(ctx context.Context, name string) error {
	return c.delete(ctx, c.apipath("provisioning", "clusters", name))
}

func (c *client) ResyncClusterInventory(ctx context.Context, name string) error {
	return c.post(ctx, c.apipath("provisioning", "clusters", name, ":resync-inventory"), nil)
}
