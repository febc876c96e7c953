// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// =============================================================================
// INPUT RULES
// =============================================================================

// Input placeholders.
const (
	PlaceholderShopping = "What are you looking for?"
	PlaceholderDefault  = "Ask me anything..."
)

// Placeholder returns the input placeholder for a mode.
func Placeholder(mode string) string {
	if mode == model.ModeShopping {
		return PlaceholderShopping
	}
	return PlaceholderDefault
}

// CanSubmit reports whether a draft may be submitted.
func CanSubmit(draft string, busy bool) bool {
	return !busy && !util.IsBlank(draft)
}

// InputAction is what a key press does to the draft.
type InputAction int

const (
	InputNone    InputAction = iota // Key is not an enter variant
	InputSubmit                     // Plain enter
	InputNewline                    // Modified enter
)

// newlineKeys insert a line break instead of submitting.
var newlineKeys = []string{"shift+enter", "alt+enter", "ctrl+j"}

// NewlineKeys returns the key names that insert a newline.
func NewlineKeys() []string {
	return append([]string(nil), newlineKeys...)
}

// ClassifyKey maps a key press to an input action.
func ClassifyKey(k tea.KeyMsg) InputAction {
	name := k.String()
	if name == "enter" {
		return InputSubmit
	}
	for _, n := range newlineKeys {
		if name == n {
			return InputNewline
		}
	}
	return InputNone
}
