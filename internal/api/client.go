// Package api is the REST client for the Operations Center backend.
//
// Every endpoint answers with the same JSON envelope; the payload lives in
// its metadata field. The console never talks to the backend any other way.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by NewClient for unusable settings.
var ErrInvalidConfig = errors.New("invalid api client configuration")

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

// apiVersion is the path prefix of every endpoint.
const apiVersion = "1.0"

// Config describes how to reach the backend.
type Config struct {
	// URL is the API root, e.g. https://operations-center.local:7443.
	URL string
	// ClientCert and ClientKey are PEM files for mutual TLS.
	ClientCert string
	ClientKey  string
	// CACert is a PEM file with additional trusted roots.
	CACert string
	// Timeout bounds each request; zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport entirely (tests).
	HTTPClient *http.Client
}

// Client is the set of backend operations the console uses.
type Client interface {
	ClusterClient
	ServerClient
	TokenClient
	UpdateClient
	ChannelClient
	TemplateClient
	InventoryClient
	SystemClient
}

type client struct {
	httpclient *http.Client
	api        string
}

var _ Client = (*client)(nil)

// NewClient builds a Client from cfg.
func NewClient(cfg Config) (Client, error) {
	root := strings.TrimSuffix(strings.TrimSpace(cfg.URL), "/")
	if root == "" {
		return nil, fmt.Errorf("%w: server url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(root)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: server url %q is not absolute", ErrInvalidConfig, cfg.URL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc, err = newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	return &client{httpclient: hc, api: root}, nil
}

func newHTTPClient(cfg Config) (*http.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tran := http.DefaultTransport.(*http.Transport).Clone()
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read ca certificate: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates found in %s", ErrInvalidConfig, cfg.CACert)
		}
		tlsConfig.RootCAs = pool
	}

	switch {
	case cfg.ClientCert != "" && cfg.ClientKey != "":
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	case cfg.ClientCert != "" || cfg.ClientKey != "":
		return nil, fmt.Errorf("%w: client_cert and client_key must be set together", ErrInvalidConfig)
	}

	tran.TLSClientConfig = tlsConfig
	return &http.Client{Transport: tran, Timeout: timeout}, nil
}

// apipath joins path segments below the versioned API root, escaping each one.
func (c *client) apipath(path ...string) string {
	parts := make([]string, 0, len(path)+2)
	parts = append(parts, c.api, apiVersion)
	for _, p := range path {
		parts = append(parts, url.PathEscape(strings.Trim(p, "/")))
	}
	return strings.Join(parts, "/")
}

// withQuery appends non-empty query values to u.
func withQuery(u string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

// do sends a request with an optional JSON body and decodes the envelope
// metadata into out (when out is non-nil).
func (c *client) do(ctx context.Context, method, u string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp, out)
}

func (c *client) get(ctx context.Context, u string, out any) error {
	return c.do(ctx, http.MethodGet, u, nil, out)
}

func (c *client) post(ctx context.Context, u string, body any) error {
	return c.do(ctx, http.MethodPost, u, body, nil)
}

func (c *client) put(ctx context.Context, u string, body any) error {
	return c.do(ctx, http.MethodPut, u, body, nil)
}

func (c *client) delete(ctx context.Context, u string) error {
	return c.do(ctx, http.MethodDelete, u, nil, nil)
}
