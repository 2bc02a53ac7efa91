package kfp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gkcalat/pipelines/internal/config"
)

// APIPrefix is the versioned base path of every endpoint.
const APIPrefix = "/apis/v2beta1"

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

type Client struct {
	httpClient *http.Client
	baseURL    string
	config     *config.Config
	log        *logrus.Entry
}

type Option func(*clientOptions)

type clientOptions struct {
	httpClient  *http.Client
	registerer  prometheus.Registerer
	tokenSource oauth2.TokenSource
}

// WithHTTPClient sets the client whose transport requests are sent through.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithRegisterer records request counts and latencies on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *clientOptions) { o.registerer = reg }
}

// WithTokenSource overrides the token source selected by the auth mode.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *clientOptions) { o.tokenSource = ts }
}

func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	transport := http.DefaultTransport
	if o.httpClient != nil && o.httpClient.Transport != nil {
		transport = o.httpClient.Transport
	}

	ts := o.tokenSource
	if ts == nil {
		var err error
		ts, err = tokenSource(cfg)
		if err != nil {
			return nil, err
		}
	}
	if ts != nil {
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}

	if o.registerer != nil {
		var err error
		transport, err = instrumentTransport(o.registerer, transport)
		if err != nil {
			return nil, fmt.Errorf("failed to register client metrics: %w", err)
		}
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL() + APIPrefix,
		config:     cfg,
		log:        logrus.WithField("host", cfg.Host),
	}, nil
}

func tokenSource(cfg *config.Config) (oauth2.TokenSource, error) {
	switch cfg.Auth {
	case config.AuthToken:
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}), nil
	case config.AuthGoogle:
		ts, err := google.DefaultTokenSource(context.Background(), cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default Google credentials: %w", err)
		}
		return ts, nil
	default:
		return nil, nil
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	entry := c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		entry.Debug("request failed")
		return newAPIError(method, path, resp)
	}
	entry.Debug("request completed")

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// resourcePath joins escaped identifiers onto a collection path, e.g. ("/runs", "abc").
func resourcePath(collection string, ids ...string) string {
	var b strings.Builder
	b.WriteString(collection)
	for _, id := range ids {
		b.WriteString("/")
		b.WriteString(url.PathEscape(id))
	}
	return b.String()
}
