// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme variants accepted by NewThemeFor.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// BusyFrames are the three staggered dots shown while a request is in flight.
var BusyFrames = []string{"•∙∙", "∙•∙", "∙∙•", "∙•∙"}

// BusyFrameInterval is the time each busy frame stays on screen.
const BusyFrameInterval = time.Second / 6

// Theme holds all styles used by the nuvexa TUI.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile
	Variant      string

	// Dimensions
	Width  int
	Height int

	// Header
	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderTagline lipgloss.Style

	// Welcome screen
	WelcomeTitle    lipgloss.Style
	WelcomeSubtitle lipgloss.Style
	WelcomeFeature  lipgloss.Style
	WelcomeIcon     lipgloss.Style

	// Messages
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	Timestamp       lipgloss.Style

	// Product cards
	ProductCard        lipgloss.Style
	ProductName        lipgloss.Style
	ProductPrice       lipgloss.Style
	ProductDescription lipgloss.Style
	ProductRating      lipgloss.Style
	ProductSource      lipgloss.Style
	ProductImage       lipgloss.Style

	// Mode selector
	ModeActive   lipgloss.Style
	ModeInactive lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status
	BusyDots    lipgloss.Style
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style
	Hint        lipgloss.Style
	HintKey     lipgloss.Style
	Divider     lipgloss.Style
}

// NewTheme creates a theme for the detected terminal background.
func NewTheme() *Theme {
	return NewThemeFor(ThemeAuto)
}

// NewThemeFor creates a theme for the given variant. Unknown values behave
// like "auto".
func NewThemeFor(variant string) *Theme {
	colorProfile := termenv.ColorProfile()

	variant = strings.ToLower(strings.TrimSpace(variant))
	var isDark bool
	switch variant {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		variant = ThemeAuto
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Variant:      variant,
		Width:        80,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderTagline = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Welcome
	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.WelcomeSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.WelcomeFeature = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.WelcomeIcon = lipgloss.NewStyle().
		PaddingRight(1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.ErrorBubble = t.AssistantBubble.
		BorderForeground(Rose)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Product cards
	t.ProductCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(CardBorder).
		Padding(0, 1)

	t.ProductName = lipgloss.NewStyle().
		Bold(true).
		Foreground(CardTitle)

	t.ProductPrice = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.ProductDescription = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ProductRating = lipgloss.NewStyle().
		Foreground(Amber)

	t.ProductSource = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ProductImage = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Mode selector
	t.ModeActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)

	t.ModeInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	// Status
	t.BusyDots = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.StatusOK = lipgloss.NewStyle().
		Foreground(Emerald)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.HintKey = lipgloss.NewStyle().
		Foreground(Cyan)

	t.Divider = lipgloss.NewStyle().
		Foreground(Overlay)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// CardColumns is the number of product cards rendered side by side.
func (t *Theme) CardColumns() int {
	return ColumnsFor(t.Width)
}

// ColumnsFor returns the product card columns that fit in width.
func ColumnsFor(width int) int {
	switch {
	case width < 60:
		return 1
	case width < 100:
		return 2
	default:
		return 3
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// String returns the layout name.
func (l LayoutMode) String() string {
	switch l {
	case LayoutNarrow:
		return "narrow"
	case LayoutMedium:
		return "medium"
	default:
		return "wide"
	}
}
