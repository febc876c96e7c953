// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in    string
		ok    bool
		name  string
		args  string
		known bool
	}{
		{"/help", true, "help", "", true},
		{"  /SHOP  red shoes ", true, "shop", "red shoes", true},
		{"/shop\nlaptop", true, "shop", "laptop", true},
		{"/q", true, "quit", "", true},
		{"/mode shopping", true, "mode", "shopping", true},
		{"/nope", true, "nope", "", false},
		{"hello /help", false, "", "", false},
		{"", false, "", "", false},
	}
	for _, tc := range tests {
		cmd, ok := ParseCommand(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseCommand(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if cmd.Name != tc.name || cmd.Args != tc.args {
			t.Errorf("ParseCommand(%q) = {%q %q}, want {%q %q}", tc.in, cmd.Name, cmd.Args, tc.name, tc.args)
		}
		if ok && cmd.Known() != tc.known {
			t.Errorf("ParseCommand(%q).Known() = %v, want %v", tc.in, cmd.Known(), tc.known)
		}
	}
}

func TestIsCommand(t *testing.T) {
	if !IsCommand(" /help") {
		t.Error("IsCommand(\" /help\") = false")
	}
	if IsCommand("help") {
		t.Error("IsCommand(\"help\") = true")
	}
}

func TestCommands_HaveUsage(t *testing.T) {
	for _, c := range Commands {
		if c.Usage == "" || c.Description == "" {
			t.Errorf("command %q missing usage or description", c.Name)
		}
	}
}
