// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the nuvexa TUI.

All colors use Lip Gloss AdaptiveColor so they follow the terminal's
light or dark background. The palette lives in colors.go and the composed
styles in theme.go.

# Themes

NewTheme detects the background through termenv. NewThemeFor forces a
variant from the ui.theme config value:

	theme := styles.NewThemeFor(cfg.UI.Theme) // "auto", "dark" or "light"
	header := theme.HeaderTitle.Render("NUVEXA")

# Busy Dots

BusyFrames holds the three staggered dot frames shown while a request is in
flight. It is consumed by the bubbles spinner in the components package.
*/
package styles
