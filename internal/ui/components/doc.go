// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the render functions for the nuvexa TUI.

Components hold only layout state (width, theme). Everything they draw comes
from a store.Snapshot or a model value passed in by the chat model, so the
same snapshot always renders the same screen.

# Components

  - Header: title bar with the NUVEXA brand and tagline
  - Welcome: greeting and per-mode feature list for an empty conversation
  - MessageList / MessageView: transcript with avatars and Markdown replies
  - ProductGrid / ProductCard: product results attached to a reply
  - ModeSelector: one control per available mode, active one highlighted
  - BusyIndicator: three staggered dots while a request is in flight
  - StatusLine: last error or key hints

Input rules (placeholder text, submit gating, enter handling) live in
input.go so the chat model and the line REPL share them.
*/
package components
