// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// =============================================================================
// BUSY INDICATOR
// =============================================================================

// BusyIndicator shows three staggered dots under the last message while a
// request is in flight.
type BusyIndicator struct {
	spinner spinner.Model
	active  bool
	theme   *styles.Theme
}

// NewBusyIndicator creates an inactive indicator.
func NewBusyIndicator(theme *styles.Theme) BusyIndicator {
	s := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: styles.BusyFrames,
		FPS:    styles.BusyFrameInterval,
	}))
	s.Style = theme.BusyDots
	return BusyIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns the first tick.
func (b BusyIndicator) Start() (BusyIndicator, tea.Cmd) {
	if b.active {
		return b, nil
	}
	b.active = true
	return b, b.spinner.Tick
}

// Stop deactivates the indicator. Pending ticks are dropped by Update.
func (b BusyIndicator) Stop() BusyIndicator {
	b.active = false
	return b
}

// Active reports whether the indicator is running.
func (b BusyIndicator) Active() bool {
	return b.active
}

// Update advances the animation.
func (b BusyIndicator) Update(msg tea.Msg) (BusyIndicator, tea.Cmd) {
	if !b.active {
		return b, nil
	}
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return b, cmd
}

// View renders the assistant avatar followed by the current dot frame, or
// nothing when inactive.
func (b BusyIndicator) View() string {
	if !b.active {
		return ""
	}
	return model.RoleAssistant.Avatar() + " " + b.spinner.View()
}
