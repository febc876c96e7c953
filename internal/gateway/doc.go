// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the NUVEXA backend.
//
// The backend exposes four JSON endpoints under /api: chat, shop, modes and
// health. Each Client method issues exactly one request. There are no retries,
// no caching and no timeout escalation; the only timeout is the one configured
// on the underlying transport.
//
// # Key Types
//
//   - Client: resty-based client bound to a base URL
//   - RequestError: the single error kind returned by every operation
//   - HistoryEntry: prior conversation turn sent with a chat request
//
// # Usage
//
//	client := gateway.New("http://localhost:8000").WithTimeout(30 * time.Second)
//	resp, err := client.SendChatMessage(ctx, "hello", "assistant", nil)
//	if err != nil {
//	    fmt.Println(err) // detail from the backend, or a generic message
//	}
//
// # Errors
//
// Non-2xx responses are turned into a RequestError whose message is the
// backend's "detail" field when present, otherwise a fixed per-operation
// message such as "Failed to send message".
package gateway
