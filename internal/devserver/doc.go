// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver runs a local stand-in for the NUVEXA backend.
//
// It serves the same four endpoints the client talks to:
//
//	POST /api/chat    canned replies, products attached in shopping mode
//	POST /api/shop    search over a fixed product catalogue
//	GET  /api/modes   the assistant and shopping modes
//	GET  /api/health  {"status":"healthy", ...}
//
// Errors use the backend's {"detail": "..."} body so the client's error
// extraction can be exercised end to end. Requests are rate limited per
// client address.
package devserver
