package api

import (
	"context"
	"time"
)

// TemplateClient manages cluster templates.
type TemplateClient interface {
	ListClusterTemplates(ctx context.Context) ([]ClusterTemplate, error)
	GetClusterTemplate(ctx context.Context, name string) (ClusterTemplate, error)
	CreateClusterTemplate(ctx context.Context, tmpl ClusterTemplatePost) error
	UpdateClusterTemplate(ctx context.Context, name string, tmpl ClusterTemplatePut) error
	RenameClusterTemplate(ctx context.Context, name, newName string) error
	DeleteClusterTemplate(ctx context.Context, name string) error
}

// ClusterTemplate holds reusable cluster configuration with variables.
type ClusterTemplate struct {
	Name                      string                      `json:"name" yaml:"name"`
	Description               string                      `json:"description" yaml:"description"`
	ServiceConfigTemplate     string                      `json:"service_config_template" yaml:"service_config_template"`
	ApplicationConfigTemplate string                      `json:"application_config_template" yaml:"application_config_template"`
	Variables                 map[string]TemplateVariable `json:"variables" yaml:"variables"`
	LastUpdated               time.Time                   `json:"last_updated" yaml:"last_updated"`
}

// TemplateVariable documents one substitution in a cluster template.
type TemplateVariable struct {
	Description  string `json:"description" yaml:"description"`
	DefaultValue string `json:"default" yaml:"default"`
}

// ClusterTemplatePut carries the editable fields of a template.
type ClusterTemplatePut struct {
	Description               string                      `json:"description"`
	ServiceConfigTemplate     string                      `json:"service_config_template"`
	ApplicationConfigTemplate string                      `json:"application_config_template"`
	Variables                 map[string]TemplateVariable `json:"variables"`
}

// ClusterTemplatePost creates a template.
type ClusterTemplatePost struct {
	Name string `json:"name"`
	ClusterTemplatePut
}

func (c *client) ListClusterTemplates(ctx context.Context) ([]ClusterTemplate, error) {
	var tmpls []ClusterTemplate
	if err := c.get(ctx, withQuery(c.apipath("provisioning", "cluster-templates"), "recursion", "1"), &tmpls); err != nil {
		return nil, err
	}
	return tmpls, nil
}

func (c *client) GetClusterTemplate(ctx context.Context, name string) (ClusterTemplate, error) {
	var tmpl ClusterTemplate
	err := c.get(ctx, c.apipath("provisioning", "cluster-templates", name), &tmpl)
	return tmpl, err
}

func (c *client) CreateClusterTemplate(ctx context.Context, tmpl ClusterTemplatePost) error {
	return c.post(ctx, c.apipath("provisioning", "cluster-templates"), tmpl)
}

func (c *client) UpdateClusterTemplate(ctx context.Context, name string, tmpl ClusterTemplatePut) error {
	return c.put(ctx, c.apipath("provisioning", "cluster-templates", name), tmpl)
}

func (c *client) RenameClusterTemplate(ctx context.Context, name, newName string) error {
	return c.post(ctx, c.apipath("provisioning", "cluster-templates", name), NamePost{Name: newName})
}

func (c *client) DeleteClusterTemplate(ctx context.Context, name string) error {
	return c.delete(ctx, c.apipath("provisioning", "cluster-templates", name))
}
