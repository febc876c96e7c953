// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"unicode"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// CommandInfo describes a slash command for /help.
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
}

// Commands lists the slash commands in help order.
var Commands = []CommandInfo{
	{"help", "/help", "Show commands and keys"},
	{"clear", "/clear", "Start a new conversation"},
	{"mode", "/mode [id]", "Switch mode, or cycle when no id is given"},
	{"modes", "/modes", "Reload the mode list from the backend"},
	{"shop", "/shop <query>", "Search products directly"},
	{"health", "/health", "Check the backend"},
	{"export", "/export [md|json]", "Save the conversation to a file"},
	{"copy", "/copy", "Copy the last reply to the clipboard"},
	{"quit", "/quit", "Exit"},
}

// commandAliases maps short forms to command names.
var commandAliases = map[string]string{
	"h":    "help",
	"?":    "help",
	"q":    "quit",
	"exit": "quit",
	"new":  "clear",
	"s":    "shop",
	"m":    "mode",
}

// Command is a parsed slash command.
type Command struct {
	Name string
	Args string
}

// IsCommand reports whether input is a slash command rather than a message.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ParseCommand splits "/name args..." into its parts. The name is lowercased
// and aliases are resolved. ok is false when input is not a command.
func ParseCommand(input string) (cmd Command, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Command{}, false
	}
	body := strings.TrimPrefix(input, "/")
	name, args := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		name, args = body[:i], body[i:]
	}
	name = strings.ToLower(name)
	if alias, found := commandAliases[name]; found {
		name = alias
	}
	return Command{Name: name, Args: strings.TrimSpace(args)}, true
}

// Known reports whether the command exists.
func (c Command) Known() bool {
	for _, info := range Commands {
		if info.Name == c.Name {
			return true
		}
	}
	return false
}
