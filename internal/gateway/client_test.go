// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns a client pointed at a server running handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// =============================================================================
// CONFIGURATION TESTS
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.Timeout())
}

func TestWithBaseURL_TrimsTrailingSlash(t *testing.T) {
	c := New("http://example.test:9000/")
	assert.Equal(t, "http://example.test:9000", c.BaseURL())
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	c := New("").WithTimeout(5 * time.Second)
	c.WithTimeout(0)
	assert.Equal(t, 5*time.Second, c.Timeout())
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestSendChatMessage_RequestShape(t *testing.T) {
	var got map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"message":"hello back","mode":"assistant"}`)
	})

	history := []HistoryEntry{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hey"},
	}
	resp, err := c.SendChatMessage(context.Background(), "hello", "assistant", history)
	require.NoError(t, err)

	assert.Equal(t, "hello back", resp.Message)
	assert.Equal(t, "assistant", resp.Mode)
	assert.Empty(t, resp.Products)

	assert.Equal(t, "hello", got["message"])
	assert.Equal(t, "assistant", got["mode"])
	hist, ok := got["conversation_history"].([]any)
	require.True(t, ok, "conversation_history should be an array")
	require.Len(t, hist, 2)
	assert.Equal(t, map[string]any{"role": "user", "content": "hi"}, hist[0])
}

func TestSendChatMessage_NilHistorySentAsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})

	_, err := c.SendChatMessage(context.Background(), "first", "assistant", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw["conversation_history"]))
}

func TestSendChatMessage_Products(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"message": "Here are some options",
			"mode": "shopping",
			"products": [
				{"name":"Trail Runner","description":"Light","price":89.5,"rating":4.5,"images":["a.jpg"],"source":"Shop A"},
				{"name":"Road Runner","description":"Fast","price":120,"rating":4,"images":[],"source":"Shop B"}
			]
		}`)
	})

	resp, err := c.SendChatMessage(context.Background(), "shoes", "shopping", nil)
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Trail Runner", resp.Products[0].Name)
	assert.Equal(t, "$89.50", resp.Products[0].FormatPrice())
	assert.Equal(t, "a.jpg", resp.Products[0].Thumbnail())
	assert.Equal(t, "", resp.Products[1].Thumbnail())
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestErrors_DetailIsSurfaced(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{"detail":"rate limited"}`)
	})

	_, err := c.SendChatMessage(context.Background(), "hi", "assistant", nil)
	require.Error(t, err)
	assert.Equal(t, "rate limited", err.Error())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, OpChat, reqErr.Op)
	assert.Equal(t, http.StatusTooManyRequests, reqErr.Status)
	assert.False(t, reqErr.IsTransport())
}

func TestErrors_GenericFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unparseable body", `<html>Bad Gateway</html>`},
		{"empty body", ``},
		{"no detail field", `{"error":"boom"}`},
		{"empty detail", `{"detail":""}`},
		{"non-string detail", `{"detail":[{"msg":"field required"}]}`},
	}

	ops := []struct {
		op   Operation
		want string
		call func(c *Client) error
	}{
		{OpChat, "Failed to send message", func(c *Client) error {
			_, err := c.SendChatMessage(context.Background(), "hi", "assistant", nil)
			return err
		}},
		{OpShop, "Failed to search products", func(c *Client) error {
			_, err := c.SearchProducts(context.Background(), "shoes")
			return err
		}},
		{OpModes, "Failed to fetch modes", func(c *Client) error {
			_, err := c.ListModes(context.Background())
			return err
		}},
		{OpHealth, "Health check failed", func(c *Client) error {
			_, err := c.HealthCheck(context.Background())
			return err
		}},
	}

	for _, tc := range tests {
		for _, op := range ops {
			t.Run(tc.name+"/"+string(op.op), func(t *testing.T) {
				body := tc.body
				c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, http.StatusInternalServerError, body)
				})
				err := op.call(c)
				require.Error(t, err)
				assert.Equal(t, op.want, err.Error())
				assert.True(t, IsRequestError(err))
			})
		}
	}
}

func TestErrors_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).HealthCheck(context.Background())
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, reqErr.IsTransport())
	assert.NotEmpty(t, reqErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestErrors_InvalidSuccessBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})

	_, err := c.ListModes(context.Background())
	require.Error(t, err)
	assert.Equal(t, "invalid response from server", err.Error())
}

func TestErrors_NoRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{"detail":"down"}`)
	})

	_, err := c.SendChatMessage(context.Background(), "hi", "assistant", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "exactly one request per call")
}

func TestErrors_ContextCancelled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SendChatMessage(ctx, "hi", "assistant", nil)
	require.Error(t, err)
	assert.True(t, IsRequestError(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

// =============================================================================
// SHOP / MODES / HEALTH TESTS
// =============================================================================

func TestSearchProducts(t *testing.T) {
	var got ShopRequest
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/shop", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"query":"lamp","products":[{"name":"Desk Lamp","price":25}]}`)
	})

	resp, err := c.SearchProducts(context.Background(), "lamp")
	require.NoError(t, err)
	assert.Equal(t, "lamp", got.Query)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, 1, resp.Count, "count derived from products when absent")
}

func TestListModes(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/modes", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"modes":[{"id":"assistant","name":"Assistant","icon":"🤖","description":"General"},{"id":"travel","name":"Travel","icon":"✈️","description":"Trips"}]}`)
	})

	modes, err := c.ListModes(context.Background())
	require.NoError(t, err)
	require.Len(t, modes, 2)
	assert.Equal(t, "travel", modes[1].ID)
}

func TestListModes_MissingListIsEmpty(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	modes, err := c.ListModes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, modes)
	assert.Empty(t, modes)
}

func TestHealthCheck_KeepsUnknownFields(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"status":"healthy","version":"1.0.0","openai_configured":true,"region":"eu"}`)
	})

	h, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())
	assert.Equal(t, "1.0.0", h.Version)
	assert.True(t, h.OpenAIConfigured)
	assert.Equal(t, "eu", h.Raw["region"])
}
