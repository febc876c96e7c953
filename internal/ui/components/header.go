// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Branding shown in the header.
const (
	AppTitle   = "NUVEXA"
	AppTagline = "Your AI Assistant with Execution Power"
	AppIcon    = "🤖"
)

// Header is the title bar.
type Header struct {
	Width int
	theme *styles.Theme
}

// NewHeader creates a header with the default width.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Height returns the number of lines View produces.
func (h *Header) Height() int {
	if h.Width < 40 {
		return 1
	}
	return 4
}

// View renders the bordered header, or the compact form on narrow terminals.
func (h *Header) View() string {
	if h.Width < 40 {
		return h.ViewCompact()
	}

	// Border and padding take 6 columns
	inner := h.Width - 6

	title := h.theme.HeaderTitle.Render(AppIcon + " " + AppTitle)
	tagline := h.theme.HeaderTagline.Render(util.TruncateWidth(AppTagline, inner))

	center := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center)
	content := lipgloss.JoinVertical(lipgloss.Center,
		center.Render(title),
		center.Render(tagline),
	)

	return h.theme.Header.Width(h.Width - 2).Render(content)
}

// ViewCompact renders a single-line header.
func (h *Header) ViewCompact() string {
	title := h.theme.HeaderTitle.Render(AppTitle)
	rest := util.TruncateWidth(AppTagline, h.Width-util.StringWidth(AppTitle)-3)
	if rest == "" {
		return title
	}
	return title + " " + h.theme.HeaderTagline.Render(rest)
}
