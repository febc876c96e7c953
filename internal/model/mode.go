// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Mode identifiers known to the client.
const (
	ModeAssistant = "assistant"
	ModeShopping  = "shopping"

	// DefaultMode is the active mode of a fresh session.
	DefaultMode = ModeAssistant
)

// Mode is a conversation mode offered by the backend.
type Mode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Label returns the icon and name joined for display.
func (m Mode) Label() string {
	if m.Icon == "" {
		return m.Name
	}
	return m.Icon + " " + m.Name
}

// FallbackModes returns the modes used when the backend cannot list them.
// A new slice is returned on every call.
func FallbackModes() []Mode {
	return []Mode{
		{ID: ModeAssistant, Name: "Assistant", Icon: "🤖", Description: "General AI assistant"},
		{ID: ModeShopping, Name: "Shopping", Icon: "🛒", Description: "Find products"},
	}
}

// FindMode returns the mode with the given ID from modes.
func FindMode(modes []Mode, id string) (Mode, bool) {
	for _, m := range modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}
