// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the views, the CLI and the
// exporters.
//
// # Key Functions
//
//   - TruncateWidth, PadRight, StringWidth: display-width aware text layout
//   - NormalizeInput: NFC normalization and control-character cleanup of user input
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	name := util.TruncateWidth(product.Name, 24)
//	text := util.NormalizeInput(draft)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
