package templates

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// TemplateSignals is posted by the create and edit forms. Name is only
// read on create.
type TemplateSignals struct {
	Form struct {
		Name              string `json:"name"`
		Description       string `json:"description"`
		ServiceConfig     string `json:"service_config_template"`
		ApplicationConfig string `json:"application_config_template"`
		Variables         string `json:"variables"`
	} `json:"form"`
}

const variablesHelp = "A YAML mapping of variable name to description and default"

func templateFields(s TemplateSignals) []components.FormField {
	return []components.FormField{
		{Name: "description", Label: "Description", Value: s.Form.Description},
		{Name: "service_config_template", Label: "Service config template", Type: components.InputTextarea, Value: s.Form.ServiceConfig},
		{Name: "application_config_template", Label: "Application config template", Type: components.InputTextarea, Value: s.Form.ApplicationConfig},
		{Name: "variables", Label: "Variables (YAML)", Type: components.InputTextarea, Value: s.Form.Variables, Help: variablesHelp,
			Placeholder: "storage:\n  description: Storage driver\n  default: lvm"},
	}
}

func createForm(s TemplateSignals) components.Form {
	return components.Form{
		ID:     "template-form",
		Action: "/templates/new",
		Submit: "Create template",
		Cancel: "/templates",
		Fields: append([]components.FormField{
			{Name: "name", Label: "Name", Value: s.Form.Name, Required: true},
		}, templateFields(s)...),
	}
}

func editForm(name string, s TemplateSignals) components.Form {
	return components.Form{
		ID:     "template-form",
		Action: templatePath(name, "edit"),
		Submit: "Save",
		Cancel: templatePath(name),
		Fields: templateFields(s),
	}
}

// signalsFor fills the form signals from an existing template.
func signalsFor(t api.ClusterTemplate) TemplateSignals {
	var s TemplateSignals
	s.Form.Name = t.Name
	s.Form.Description = t.Description
	s.Form.ServiceConfig = t.ServiceConfigTemplate
	s.Form.ApplicationConfig = t.ApplicationConfigTemplate
	if len(t.Variables) > 0 {
		s.Form.Variables = common.FormatYAML(t.Variables)
	}
	return s
}

// parseVariables decodes the variables textarea.
func parseVariables(s string) (map[string]api.TemplateVariable, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var vars map[string]api.TemplateVariable
	if err := yaml.Unmarshal([]byte(s), &vars); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return vars, nil
}

// parsePut validates the shared template fields. fields is the form's
// field slice starting at the description field.
func parsePut(s TemplateSignals, fields []components.FormField) api.ClusterTemplatePut {
	put := api.ClusterTemplatePut{
		Description:               strings.TrimSpace(s.Form.Description),
		ServiceConfigTemplate:     s.Form.ServiceConfig,
		ApplicationConfigTemplate: s.Form.ApplicationConfig,
	}
	vars, err := parseVariables(s.Form.Variables)
	if err != nil {
		fields[3].Error = err.Error()
	}
	put.Variables = vars
	return put
}
