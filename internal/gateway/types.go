// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"encoding/json"

	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// HistoryEntry is a prior turn sent as conversation context.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message             string         `json:"message"`
	Mode                string         `json:"mode"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

// ChatResponse is the body of a successful POST /api/chat.
type ChatResponse struct {
	Message  string          `json:"message"`
	Mode     string          `json:"mode,omitempty"`
	Products []model.Product `json:"products,omitempty"`
}

// ShopRequest is the body of POST /api/shop.
type ShopRequest struct {
	Query string `json:"query"`
}

// ShopResponse is the body of a successful POST /api/shop.
type ShopResponse struct {
	Query    string          `json:"query,omitempty"`
	Products []model.Product `json:"products"`
	Count    int             `json:"count,omitempty"`
}

// ModesResponse is the body of a successful GET /api/modes.
type ModesResponse struct {
	Modes []model.Mode `json:"modes"`
}

// HealthStatus is the body of a successful GET /api/health.
// Fields the client does not model are kept in Raw.
type HealthStatus struct {
	Status           string         `json:"status"`
	Version          string         `json:"version"`
	OpenAIConfigured bool           `json:"openai_configured"`
	Raw              map[string]any `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the full object in Raw.
func (h *HealthStatus) UnmarshalJSON(data []byte) error {
	type plain HealthStatus
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = HealthStatus(p)
	h.Raw = raw
	return nil
}

// Healthy reports whether the backend declared itself healthy.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy"
}
