// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for nuvexa.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend base URL and transport timeout
//   - UIConfig: Theme, default mode and rendering options
//   - Watcher: Reloads the config file when it changes on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (NUVEXA_*, VITE_API_URL)
//   - .env in the working directory
//   - ~/.nuvexa/config.toml
//   - ~/.nuvexa/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := gateway.New(cfg.API.BaseURL).WithTimeout(cfg.API.Timeout())
package config
