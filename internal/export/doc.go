// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes nuvexa conversation transcripts to disk.
//
// Export is one-way: a written transcript is never read back into the store.
//
// # Key Types
//
//   - Transcript: Point-in-time copy of the conversation
//   - Exporter: Converts a transcript to bytes in one format
//   - Options: Output directory and what to include
//
// # Supported Formats
//
//   - Markdown: Human-readable, products rendered as tables
//   - JSON: Machine-readable, messages in their wire shape
//
// # Usage
//
//	t := export.NewTranscript(st.Snapshot(), time.Now())
//	exporter, err := export.ForFormat("md", opts)
//	path, err := export.ExportToFile(t, exporter, opts)
package export
