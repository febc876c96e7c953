// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the gateway, the
// conversation store and the views.
//
// # Key Types
//
//   - Message: Single conversation entry with role, content and optional products
//   - Product: Display-only product result returned in shopping mode
//   - Mode: Backend conversation mode (assistant, shopping, ...)
//   - Role: Message role enumeration (user, assistant)
//
// # Usage
//
//	msg := model.NewUserMessage("find me running shoes")
//	modes := model.FallbackModes()
//	fmt.Println(modes[0].Label()) // 🤖 Assistant
package model
