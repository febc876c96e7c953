// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the nuvexa command tree.
//
// Running nuvexa with no subcommand opens the chat TUI. The subcommands
// give scriptable access to the same backend:
//
//	nuvexa ask [--mode m] <message>   one message, print the reply
//	nuvexa chat                       line-based REPL with history
//	nuvexa shop <query>               product search
//	nuvexa modes                      list conversation modes
//	nuvexa health                     backend health; exit 1 when down
//	nuvexa config show|path|get|set   inspect and edit the config file
//	nuvexa serve [--addr]             run the local development backend
//	nuvexa version
//
// Global flags: --api-url, --config, --debug and --json. With --json,
// ask, shop, modes and health print a JSONResponse envelope on stdout and
// human-readable notices go to stderr.
package cli
