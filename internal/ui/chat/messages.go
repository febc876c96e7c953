// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/store"
)

// modesLoadedMsg reports that the store finished loading modes.
type modesLoadedMsg struct{}

// requestDoneMsg carries the outcome of a chat or search request.
type requestDoneMsg struct {
	result store.Result
}

// healthMsg carries the outcome of /health.
type healthMsg struct {
	status *gateway.HealthStatus
	err    error
}

// exportDoneMsg carries the outcome of /export.
type exportDoneMsg struct {
	path string
	err  error
}

// configReloadedMsg is sent when the config file changes on disk.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}
