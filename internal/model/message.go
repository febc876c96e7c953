// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "NUVEXA"
	default:
		return string(r)
	}
}

// Avatar returns the glyph shown next to messages from this role.
func (r Role) Avatar() string {
	if r == RoleUser {
		return "👤"
	}
	return "🤖"
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in the conversation history.
// Messages are immutable once appended to a history.
type Message struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Products  []Product `json:"products,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message carrying products.
func NewAssistantMessage(content string, products []Product) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Products = products
	return msg
}

// NewID returns a fresh message identifier.
func NewID() string {
	return "msg_" + uuid.NewString()
}

// IsUser returns true if this is a user message.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if this is an assistant message.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// HasProducts returns true if the message carries at least one product.
func (m Message) HasProducts() bool {
	return len(m.Products) > 0
}

// Clone returns a copy of the message that shares no slices with m.
func (m Message) Clone() Message {
	out := m
	if m.Products != nil {
		out.Products = make([]Product, len(m.Products))
		for i, p := range m.Products {
			out.Products[i] = p.Clone()
		}
	}
	return out
}

// FormatTime returns the creation time formatted for display.
func (m Message) FormatTime() string {
	return m.CreatedAt.Format("15:04")
}
