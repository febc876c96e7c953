// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jeranaias/nuvexa-tui/internal/logger"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is used when no API URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the transport timeout for a single request.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "nuvexa-tui"
)

// Endpoint paths relative to the base URL.
const (
	pathChat   = "/api/chat"
	pathShop   = "/api/shop"
	pathModes  = "/api/modes"
	pathHealth = "/api/health"
)

// Client talks to the NUVEXA backend. It is safe for concurrent use.
type Client struct {
	rc      *resty.Client
	baseURL string
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client for the backend at baseURL.
// An empty baseURL selects DefaultBaseURL.
func New(baseURL string) *Client {
	c := &Client{
		rc:      resty.New(),
		timeout: DefaultTimeout,
		log:     logger.Component("gateway"),
	}
	c.rc.
		SetRetryCount(0).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)
	return c.WithBaseURL(baseURL)
}

// WithBaseURL sets the base URL. A trailing slash is removed.
func (c *Client) WithBaseURL(url string) *Client {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	if url == "" {
		url = DefaultBaseURL
	}
	c.baseURL = url
	c.rc.SetBaseURL(url)
	return c
}

// WithTimeout sets the transport timeout. Non-positive values are ignored.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
		c.rc.SetTimeout(timeout)
	}
	return c
}

// WithLogger replaces the request logger.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	if l != nil {
		c.log = l
	}
	return c
}

// WithTransport replaces the HTTP transport, mainly for tests.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.rc.SetTransport(rt)
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the configured transport timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SendChatMessage posts a user message with the active mode and prior history.
func (c *Client) SendChatMessage(ctx context.Context, message, mode string, history []HistoryEntry) (*ChatResponse, error) {
	if history == nil {
		history = []HistoryEntry{}
	}
	body := ChatRequest{
		Message:             message,
		Mode:                mode,
		ConversationHistory: history,
	}

	var resp ChatResponse
	if err := c.do(ctx, OpChat, http.MethodPost, pathChat, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchProducts posts a product search query.
func (c *Client) SearchProducts(ctx context.Context, query string) (*ShopResponse, error) {
	var resp ShopResponse
	if err := c.do(ctx, OpShop, http.MethodPost, pathShop, ShopRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	if resp.Count == 0 {
		resp.Count = len(resp.Products)
	}
	return &resp, nil
}

// ListModes fetches the modes offered by the backend.
func (c *Client) ListModes(ctx context.Context) ([]model.Mode, error) {
	var resp ModesResponse
	if err := c.do(ctx, OpModes, http.MethodGet, pathModes, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Modes == nil {
		return []model.Mode{}, nil
	}
	return resp.Modes, nil
}

// HealthCheck fetches the backend health status.
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	var resp HealthStatus
	if err := c.do(ctx, OpHealth, http.MethodGet, pathHealth, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// REQUEST HANDLING
// =============================================================================

// do performs exactly one request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op Operation, method, path string, body, out any) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)

	if err != nil {
		c.log.Warn("request failed",
			"op", string(op), "method", method, "path", path,
			"duration", duration, "error", err)
		return &RequestError{Op: op, Message: err.Error(), Err: err}
	}

	status := resp.StatusCode()
	c.log.Info("request",
		"op", string(op), "method", method, "path", path,
		"status", status, "duration", duration)

	raw := resp.Body()
	if len(raw) > MaxResponseSize {
		return &RequestError{Op: op, Status: status, Message: msgResponseTooLarge}
	}

	if !resp.IsSuccess() {
		return statusError(op, status, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("invalid response body", "op", string(op), "status", status, "error", err)
		return &RequestError{Op: op, Status: status, Message: msgInvalidResponse, Err: err}
	}
	return nil
}
