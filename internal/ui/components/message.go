// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nuvexa-tui/internal/markdown"
	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/store"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders one transcript entry: avatar header, bubble, and the
// product grid when the message carries products.
type MessageView struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
	md            *markdown.Renderer
}

// NewMessageView creates a view for msg. md may be nil, in which case
// assistant text is shown as-is.
func NewMessageView(msg model.Message, theme *styles.Theme, md *markdown.Renderer) *MessageView {
	return &MessageView{Message: msg, Width: 80, theme: theme, md: md}
}

// View renders the message.
func (v *MessageView) View() string {
	parts := []string{v.renderHeader(), v.renderBubble()}
	if v.Message.HasProducts() {
		grid := NewProductGrid(v.Message.Products, v.theme)
		grid.Width = v.Width
		parts = append(parts, grid.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *MessageView) renderHeader() string {
	role := v.Message.Role
	label := v.theme.AssistantLabel
	if role == model.RoleUser {
		label = v.theme.UserLabel
	}
	header := role.Avatar() + " " + label.Render(role.DisplayName())
	if v.ShowTimestamp && !v.Message.CreatedAt.IsZero() {
		header += " " + v.theme.Timestamp.Render(v.Message.FormatTime())
	}
	return header
}

func (v *MessageView) renderBubble() string {
	// Border and padding take 4 columns
	inner := v.Width - 4
	if inner < 10 {
		inner = 10
	}

	content := v.Message.Content
	switch {
	case v.Message.IsUser():
		return v.theme.UserBubble.Width(inner + 2).Render(content)
	case content == store.ErrorPlaceholder:
		return v.theme.ErrorBubble.Width(inner + 2).Render(content)
	}

	if v.md != nil {
		v.md.SetWidth(inner)
		content = v.md.Render(content)
	}
	return v.theme.AssistantBubble.Width(inner + 2).Render(content)
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a whole transcript in order.
type MessageList struct {
	Width          int
	ShowTimestamps bool
	theme          *styles.Theme
	md             *markdown.Renderer
}

// NewMessageList creates a message list.
func NewMessageList(theme *styles.Theme, md *markdown.Renderer) *MessageList {
	return &MessageList{Width: 80, theme: theme, md: md}
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders history with a blank line between messages.
func (ml *MessageList) View(history []model.Message) string {
	views := make([]string, len(history))
	for i, msg := range history {
		mv := NewMessageView(msg, ml.theme, ml.md)
		mv.Width = ml.Width
		mv.ShowTimestamp = ml.ShowTimestamps
		views[i] = mv.View()
	}
	return strings.Join(views, "\n\n")
}
