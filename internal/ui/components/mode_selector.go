// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// ModeSelector renders one control per available mode.
type ModeSelector struct {
	theme *styles.Theme
}

// NewModeSelector creates a mode selector.
func NewModeSelector(theme *styles.Theme) *ModeSelector {
	return &ModeSelector{theme: theme}
}

// View renders modes in order with the active one highlighted. It renders
// nothing when no modes are available.
func (s *ModeSelector) View(modes []model.Mode, active string) string {
	if len(modes) == 0 {
		return ""
	}
	controls := make([]string, len(modes))
	for i, m := range modes {
		style := s.theme.ModeInactive
		if m.ID == active {
			style = s.theme.ModeActive
		}
		controls[i] = style.Render(m.Label())
	}
	return strings.Join(controls, " ")
}
