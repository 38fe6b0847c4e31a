package api

import (
	"context"
	"time"
)

// Server types known to the backend.
const (
	ServerTypeIncus            = "incus"
	ServerTypeMigrationManager = "migration-manager"
	ServerTypeOperationsCenter = "operations-center"
)

// Server statuses reported by the backend.
const (
	ServerStatusPending = "pending"
	ServerStatusReady   = "ready"
	ServerStatusOffline = "offline"
)

// ServerClient manages registered servers.
type ServerClient interface {
	ListServers(ctx context.Context) ([]Server, error)
	GetServer(ctx context.Context, name string) (Server, error)
	UpdateServer(ctx context.Context, name string, server ServerPut) error
	RenameServer(ctx context.Context, name, newName string) error
	DeleteServer(ctx context.Context, name string) error
}

// Server is a machine registered with the Operations Center.
type Server struct {
	Name                string       `json:"name" yaml:"name"`
	Type                string       `json:"server_type" yaml:"server_type"`
	Cluster             string       `json:"cluster" yaml:"cluster"`
	ConnectionURL       string       `json:"connection_url" yaml:"connection_url"`
	PublicConnectionURL string       `json:"public_connection_url" yaml:"public_connection_url"`
	Certificate         string       `json:"certificate" yaml:"certificate"`
	Fingerprint         string       `json:"fingerprint" yaml:"fingerprint"`
	Status              string       `json:"server_status" yaml:"server_status"`
	Hardware            HardwareData `json:"hardware_data" yaml:"hardware_data"`
	OS                  OSData       `json:"os_data" yaml:"os_data"`
	LastUpdated         time.Time    `json:"last_updated" yaml:"last_updated"`
	LastSeen            time.Time    `json:"last_seen" yaml:"last_seen"`
}

// HardwareData summarises a server's resources.
type HardwareData struct {
	CPUCores    int   `json:"cpu_cores" yaml:"cpu_cores"`
	MemoryBytes int64 `json:"memory_bytes" yaml:"memory_bytes"`
}

// OSData identifies a server's operating system.
type OSData struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// ServerPut updates the editable fields of a server.
type ServerPut struct {
	PublicConnectionURL string `json:"public_connection_url"`
}

func (c *client) ListServers(ctx context.Context) ([]Server, error) {
	var servers []Server
	if err := c.get(ctx, withQuery(c.apipath("provisioning", "servers"), "recursion", "1"), &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

func (c *client) GetServer(ctx context.Context, name string) (Server, error) {
	var server Server
	err := c.get(ctx, c.apipath("provisioning", "servers", name), &server)
	return server, err
}

func (c *client) UpdateServer(ctx context.Context, name string, server ServerPut) error {
	return c.put(ctx, c.apipath("provisioning", "servers", name), server)
}

func (c *client) RenameServer(ctx context.Context, name, newName string) error {
	return c.post(ctx, c.apipath("provisioning", "servers", name), NamePost{Name: newName})
}

func (c *client) DeleteServer(ctx context.Context, name string) error {
	return c.delete(ctx, c.apipath("provisioning", "servers", name))
}
