package settings

import (
	"net"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

// LogLevels are the levels the backend accepts.
var LogLevels = []string{"debug", "info", "warn", "error"}

var fingerprintPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// Signals holds every settings field. The four forms share the form.*
// namespace and each submit reads only its own fields.
type Signals struct {
	Form struct {
		RestServerAddress    string `json:"rest_server_address"`
		Fingerprints         string `json:"trusted_tls_client_cert_fingerprints"`
		Source               string `json:"source"`
		FilterExpression     string `json:"filter_expression"`
		FileFilterExpression string `json:"file_filter_expression"`
		LogLevel             string `json:"log_level"`
	} `json:"form"`
}

func networkForm(cfg api.SystemNetwork) components.Form {
	return components.Form{
		ID:     "settings-network",
		Action: "/settings/network",
		Submit: "Save network",
		Fields: []components.FormField{
			{Name: "rest_server_address", Label: "REST server address", Value: cfg.RestServerAddress, Placeholder: "[::]:7443", Required: true},
		},
	}
}

func securityForm(cfg api.SystemSecurity) components.Form {
	return components.Form{
		ID:     "settings-security",
		Action: "/settings/security",
		Submit: "Save security",
		Fields: []components.FormField{
			{
				Name:  "trusted_tls_client_cert_fingerprints",
				Label: "Trusted client certificate fingerprints",
				Type:  components.InputTextarea,
				Value: strings.Join(cfg.TrustedTLSClientCertFingerprints, "\n"),
				Help:  "One SHA-256 fingerprint per line",
			},
		},
	}
}

func updatesForm(cfg api.SystemUpdates) components.Form {
	return components.Form{
		ID:     "settings-updates",
		Action: "/settings/updates",
		Submit: "Save updates",
		Fields: []components.FormField{
			{Name: "source", Label: "Source", Value: cfg.Source, Required: true},
			{Name: "filter_expression", Label: "Update filter expression", Value: cfg.FilterExpression, Help: "Optional"},
			{Name: "file_filter_expression", Label: "File filter expression", Value: cfg.FileFilterExpression, Help: "Optional"},
		},
	}
}

func logLevelForm(cfg api.SystemSettings) components.Form {
	return components.Form{
		ID:     "settings-settings",
		Action: "/settings/settings",
		Submit: "Save log level",
		Fields: []components.FormField{
			{Name: "log_level", Label: "Log level", Type: components.InputSelect, Options: LogLevels, Value: cfg.LogLevel},
		},
	}
}

func validateAddress(s string) string {
	if s == "" {
		return "REST server address is required"
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return "Use host:port, for example [::]:7443"
	}
	return ""
}

// parseFingerprints splits the textarea into normalised fingerprints.
// Colons are dropped so both openssl and plain hex forms are accepted.
func parseFingerprints(s string) ([]string, string) {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		fp := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(line), ":", ""))
		if fp == "" {
			continue
		}
		if !fingerprintPattern.MatchString(fp) {
			return nil, "Not a hex fingerprint: " + strings.TrimSpace(line)
		}
		out = append(out, fp)
	}
	return out, ""
}

func validateSource(s string) string {
	if s == "" {
		return "Source is required"
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return "Enter an absolute http or https URL"
	}
	return ""
}

func validLogLevel(s string) bool {
	return slices.Contains(LogLevels, s)
}
