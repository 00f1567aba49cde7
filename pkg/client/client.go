/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
// Package client talks to the Black Forest Labs image-generation API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blacktop/bfl/pkg/inputs"
	"github.com/blacktop/bfl/pkg/registry"
)

const (
	DefaultBaseURL      = "https://api.bfl.ai"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = time.Second
	DefaultPollTimeout  = 5 * time.Minute
)

// Config holds connection settings. Zero values take the defaults.
type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// DefaultConfig returns a Config with every default filled in except the API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		PollTimeout:  DefaultPollTimeout,
	}
}

// Client is safe for concurrent use.
type Client struct {
	cfg      Config
	http     *http.Client
	logger   *log.Logger
	registry *registry.Registry
}

type Option func(*Client)

// WithLogger logs requests and responses at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the default http.Client. Its timeout is left as is.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRegistry resolves models against r instead of the default registry.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Client) { c.registry = r }
}

// New creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("client: API key is required")
	}
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = def.PollTimeout
	}
	c := &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   log.New(io.Discard),
		registry: registry.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Generate validates raw against the schema of model and submits it.
// Validation and unknown-model failures are returned before any request is made.
func (c *Client) Generate(ctx context.Context, model string, raw map[string]any) (*AsyncResponse, error) {
	entry, payload, err := c.registry.Payload(model, raw)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, entry.Endpoint, payload)
}

// GenerateInput submits an already constructed schema value.
func (c *Client) GenerateInput(ctx context.Context, model string, in inputs.Input) (*AsyncResponse, error) {
	entry, err := c.registry.Resolve(model)
	if err != nil {
		return nil, err
	}
	payload, err := inputs.Serialize(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", model, err)
	}
	return c.Submit(ctx, entry.Endpoint, payload)
}

// Submit posts payload to endpoint and returns the created task.
func (c *Client) Submit(ctx context.Context, endpoint string, payload inputs.Payload) (*AsyncResponse, error) {
	resp, err := c.request(ctx, http.MethodPost, endpoint, nil, payload)
	if err != nil {
		return nil, err
	}
	async := asyncFromMap(resp)
	if async.ID == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "response has no task id"}
	}
	return async, nil
}

// GetResult fetches the current state of task id.
func (c *Client) GetResult(ctx context.Context, id string) (*ResultResponse, error) {
	resp, err := c.request(ctx, http.MethodGet, "/v1/get_result", url.Values{"id": {id}}, nil)
	if err != nil {
		return nil, err
	}
	return resultFromMap(id, resp), nil
}

// GetTaskStatus is GetResult shaped as an ImageProcessingResponse.
func (c *Client) GetTaskStatus(ctx context.Context, id string) (*ImageProcessingResponse, error) {
	res, err := c.GetResult(ctx, id)
	if err != nil {
		return nil, err
	}
	status := string(res.Status)
	if status == "" {
		status = "unknown"
	}
	return &ImageProcessingResponse{
		TaskID: id,
		Status: status,
		Result: res.Result,
		Error:  res.Error,
	}, nil
}

// Download fetches a signed sample URL.
func (c *Client) Download(ctx context.Context, sampleURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sampleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "reading image data", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}
	return body, nil
}

func (c *Client) resolve(endpoint string, query url.Values) string {
	u := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		u = c.cfg.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// request sends a JSON request and decodes the JSON response into a map.
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
		c.logger.Debug("API request", "method", method, "endpoint", endpoint, "body", string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint, query), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-key", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "reading response", Cause: err}
	}
	c.logger.Debug("API response", "status", resp.StatusCode, "body", string(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "decoding response", Cause: err}
	}
	return out, nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(body []byte, fallback string) string {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if s := stringField(m, key); s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return fallback
}
