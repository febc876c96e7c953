// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const (
	WelcomeTitle    = "Welcome to NUVEXA"
	WelcomeSubtitle = "Your AI assistant is ready to help"
)

var welcomeFeatures = map[string][]string{
	model.ModeAssistant: {
		"💡 Get helpful advice and answers",
		"📝 Plan projects and tasks",
		"🎯 Solve problems efficiently",
	},
	model.ModeShopping: {
		"🛍️ Find products easily",
		"💰 Compare prices",
		"⭐ See ratings and reviews",
	},
}

// WelcomeFeatures returns the feature list for a mode. Unknown modes get the
// assistant list.
func WelcomeFeatures(mode string) []string {
	features, ok := welcomeFeatures[mode]
	if !ok {
		features = welcomeFeatures[model.ModeAssistant]
	}
	return append([]string(nil), features...)
}

// Welcome is shown in place of the transcript while it is empty.
type Welcome struct {
	Mode   string
	Width  int
	Height int
	theme  *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{Mode: model.DefaultMode, Width: 80, theme: theme}
}

// SetSize sets the area the welcome screen is centered in.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// SetMode sets the mode whose features are listed.
func (w *Welcome) SetMode(mode string) {
	w.Mode = mode
}

// View renders the welcome screen.
func (w *Welcome) View() string {
	var b strings.Builder
	b.WriteString(AppIcon)
	b.WriteString("\n\n")
	b.WriteString(w.theme.WelcomeTitle.Render(WelcomeTitle))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeSubtitle.Render(WelcomeSubtitle))
	b.WriteString("\n\n")

	features := WelcomeFeatures(w.Mode)
	lines := make([]string, len(features))
	for i, f := range features {
		lines[i] = w.theme.WelcomeFeature.Render(f)
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, lines...))

	box := lipgloss.NewStyle().Width(w.Width).Align(lipgloss.Center)
	if w.Height > 0 {
		return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
	}
	return box.Render(b.String())
}
