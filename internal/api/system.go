package api

import "context"

// SystemClient reads and writes the backend's own configuration.
type SystemClient interface {
	GetSystemNetwork(ctx context.Context) (SystemNetwork, error)
	UpdateSystemNetwork(ctx context.Context, cfg SystemNetwork) error
	GetSystemSecurity(ctx context.Context) (SystemSecurity, error)
	UpdateSystemSecurity(ctx context.Context, cfg SystemSecurity) error
	GetSystemUpdates(ctx context.Context) (SystemUpdates, error)
	UpdateSystemUpdates(ctx context.Context, cfg SystemUpdates) error
	GetSystemSettings(ctx context.Context) (SystemSettings, error)
	UpdateSystemSettings(ctx context.Context, cfg SystemSettings) error
}

type SystemNetwork struct {
	RestServerAddress string `json:"rest_server_address" yaml:"rest_server_address"`
}

type SystemSecurity struct {
	TrustedTLSClientCertFingerprints []string `json:"trusted_tls_client_cert_fingerprints" yaml:"trusted_tls_client_cert_fingerprints"`
}

type SystemUpdates struct {
	Source               string `json:"source" yaml:"source"`
	FilterExpression     string `json:"filter_expression" yaml:"filter_expression"`
	FileFilterExpression string `json:"file_filter_expression" yaml:"file_filter_expression"`
}

type SystemSettings struct {
	LogLevel string `json:"log_level" yaml:"log_level"`
}

func (c *client) GetSystemNetwork(ctx context.Context) (SystemNetwork, error) {
	var cfg SystemNetwork
	err := c.get(ctx, c.apipath("system", "network"), &cfg)
	return cfg, err
}

func (c *client) UpdateSystemNetwork(ctx context.Context, cfg SystemNetwork) error {
	return c.put(ctx, c.apipath("system", "network"), cfg)
}

func (c *client) GetSystemSecurity(ctx context.Context) (SystemSecurity, error) {
	var cfg SystemSecurity
	err := c.get(ctx, c.apipath("system", "security"), &cfg)
	return cfg, err
}

func (c *client) UpdateSystemSecurity(ctx context.Context, cfg SystemSecurity) error {
	return c.put(ctx, c.apipath("system", "security"), cfg)
}

func (c *client) GetSystemUpdates(ctx context.Context) (SystemUpdates, error) {
	var cfg SystemUpdates
	err := c.get(ctx, c.apipath("system", "updates"), &cfg)
	return cfg, err
}

func (c *client) UpdateSystemUpdates(ctx context.Context, cfg SystemUpdates) error {
	return c.put(ctx, c.apipath("system", "updates"), cfg)
}

func (c *client) GetSystemSettings(ctx context.Context) (SystemSettings, error) {
	var cfg SystemSettings
	err := c.get(ctx, c.apipath("system", "settings"), &cfg)
	return cfg, err
}

func (c *client) UpdateSystemSettings(ctx context.Context, cfg SystemSettings) error {
	return c.put(ctx, c.apipath("system", "settings"), cfg)
}
