package clusters

import (
	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

// CreateSignals is posted by the create form.
type CreateSignals struct {
	Form struct {
		Name              string `json:"name"`
		ServerNames       string `json:"server_names"`
		ServerType        string `json:"server_type"`
		ClusterTemplate   string `json:"cluster_template"`
		ServicesConfig    string `json:"services_config"`
		ApplicationConfig string `json:"application_config"`
	} `json:"form"`
}

var serverTypes = []string{api.ServerTypeIncus, api.ServerTypeMigrationManager, api.ServerTypeOperationsCenter}

func createForm(s CreateSignals) components.Form {
	serverType := s.Form.ServerType
	if serverType == "" {
		serverType = api.ServerTypeIncus
	}
	return components.Form{
		ID:     "cluster-form",
		Action: "/clusters/new",
		Submit: "Create cluster",
		Cancel: "/clusters",
		Fields: []components.FormField{
			{Name: "name", Label: "Name", Value: s.Form.Name, Required: true},
			{Name: "server_names", Label: "Servers", Value: s.Form.ServerNames, Required: true, Help: "Comma separated server names"},
			{Name: "server_type", Label: "Server type", Type: components.InputSelect, Options: serverTypes, Value: serverType},
			{Name: "cluster_template", Label: "Cluster template", Value: s.Form.ClusterTemplate, Help: "Optional"},
			{Name: "services_config", Label: "Services config (YAML)", Type: components.InputTextarea, Value: s.Form.ServicesConfig},
			{Name: "application_config", Label: "Application seed config (YAML)", Type: components.InputTextarea, Value: s.Form.ApplicationConfig},
		},
	}
}
