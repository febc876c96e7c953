// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea model for the nuvexa TUI.
//
// The model owns the input draft, the scroll position and transient notices.
// Conversation state lives in the store: the model begins a send on the update
// loop, runs the gateway call inside a tea.Cmd, and applies the result when
// the completion message comes back. Because the store rejects a send while
// another is in flight, replies always land in send order.
//
// Lines starting with "/" are commands rather than messages; see Commands.
package chat
