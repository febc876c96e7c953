// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Indigo - Primary brand accent, header title, active mode
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Violet - Secondary accent, assistant avatar and borders
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Links, hints and key names
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - Prices and healthy status
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - Ratings and warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE & TEXT
// =============================================================================

var (
	Surface       = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
	SurfaceDim    = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
	Overlay       = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
)

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User bubble - indigo gradient end of the original web client
var (
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#E0E7FF", Dark: "#3730A3"}
	UserBubbleFg     = lipgloss.AdaptiveColor{Light: "#312E81", Dark: "#EEF2FF"}
	UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#6366F1", Dark: "#6366F1"}
)

// Assistant bubble - neutral card
var (
	AssistantBubbleFg     = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#45475A"}
)

// Product card
var (
	CardBorder = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#45475A"}
	CardTitle  = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
)
