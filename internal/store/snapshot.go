// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "github.com/jeranaias/nuvexa-tui/internal/model"

// Snapshot is an immutable copy of the store state handed to views.
type Snapshot struct {
	ActiveMode     string
	AvailableModes []model.Mode
	History        []model.Message
	IsBusy         bool
	LastError      string
}

// HasError reports whether the last request failed.
func (s Snapshot) HasError() bool {
	return s.LastError != ""
}

// IsEmpty reports whether the conversation has no messages yet.
func (s Snapshot) IsEmpty() bool {
	return len(s.History) == 0
}

// Mode looks up an available mode by ID.
func (s Snapshot) Mode(id string) (model.Mode, bool) {
	return model.FindMode(s.AvailableModes, id)
}

// ActiveModeInfo returns the active mode, if it is among the available ones.
func (s Snapshot) ActiveModeInfo() (model.Mode, bool) {
	return s.Mode(s.ActiveMode)
}

// LastMessage returns the most recent message.
func (s Snapshot) LastMessage() (model.Message, bool) {
	if len(s.History) == 0 {
		return model.Message{}, false
	}
	return s.History[len(s.History)-1], true
}

// LastAssistantMessage returns the most recent assistant message.
func (s Snapshot) LastAssistantMessage() (model.Message, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].IsAssistant() {
			return s.History[i], true
		}
	}
	return model.Message{}, false
}

// NextMode returns the ID of the mode after (or before, when delta < 0) the
// active one, wrapping around. It returns the active mode when no modes are
// available.
func (s Snapshot) NextMode(delta int) string {
	n := len(s.AvailableModes)
	if n == 0 {
		return s.ActiveMode
	}
	idx := -1
	for i, m := range s.AvailableModes {
		if m.ID == s.ActiveMode {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return s.AvailableModes[n-1].ID
		}
		return s.AvailableModes[0].ID
	}
	return s.AvailableModes[((idx+delta)%n+n)%n].ID
}
