package servers

import (
	"net/url"
	"strings"

	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

// EditSignals is posted by the edit form.
type EditSignals struct {
	Form struct {
		PublicConnectionURL string `json:"public_connection_url"`
	} `json:"form"`
}

func editForm(name, publicURL string) components.Form {
	return components.Form{
		ID:     "server-form",
		Action: serverPath(name, "edit"),
		Submit: "Save",
		Cancel: serverPath(name),
		Fields: []components.FormField{
			{
				Name:        "public_connection_url",
				Label:       "Public connection URL",
				Value:       publicURL,
				Placeholder: "https://server.example:8443",
				Help:        "Leave empty to use the connection URL",
			},
		},
	}
}

// validateURL accepts an empty value or an absolute http(s) URL.
func validateURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return "Enter an absolute http or https URL"
	}
	return ""
}
