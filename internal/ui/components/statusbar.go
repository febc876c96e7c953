// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/nuvexa-tui/internal/store"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// =============================================================================
// STATUS LINE
// =============================================================================

// DefaultHints are the key hints shown when there is nothing else to say.
var DefaultHints = [][2]string{
	{"enter", "send"},
	{"alt+enter", "newline"},
	{"tab", "mode"},
	{"/help", "commands"},
	{"ctrl+c", "quit"},
}

// Notice is a transient one-line message from the chat model.
type Notice struct {
	Text  string
	Error bool
}

// Info returns a non-error notice.
func Info(text string) Notice { return Notice{Text: text} }

// Warn returns an error notice.
func Warn(text string) Notice { return Notice{Text: text, Error: true} }

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool { return n.Text == "" }

// StatusLine renders the line under the input: the last error, a transient
// notice, or key hints.
type StatusLine struct {
	Width int
	theme *styles.Theme
}

// NewStatusLine creates a status line.
func NewStatusLine(theme *styles.Theme) *StatusLine {
	return &StatusLine{Width: 80, theme: theme}
}

// SetWidth sets the line width.
func (s *StatusLine) SetWidth(width int) {
	s.Width = width
}

// View renders the line. An error in snap wins over notice.
func (s *StatusLine) View(snap store.Snapshot, notice Notice) string {
	width := s.Width - 2
	if width < 10 {
		width = 10
	}

	switch {
	case snap.HasError():
		return s.theme.StatusBar.Render(
			s.theme.StatusError.Render(util.TruncateWidth("⚠ "+snap.LastError, width)))
	case notice.Error:
		return s.theme.StatusBar.Render(
			s.theme.StatusError.Render(util.TruncateWidth("⚠ "+notice.Text, width)))
	case !notice.IsZero():
		return s.theme.StatusBar.Render(
			s.theme.StatusOK.Render(util.TruncateWidth(notice.Text, width)))
	}
	return s.theme.StatusBar.Render(s.renderHints(width))
}

func (s *StatusLine) renderHints(width int) string {
	var parts []string
	used := 0
	for _, h := range DefaultHints {
		plain := h[0] + " " + h[1]
		extra := util.StringWidth(plain)
		if len(parts) > 0 {
			extra += 3
		}
		if used+extra > width {
			break
		}
		used += extra
		parts = append(parts, s.theme.HintKey.Render(h[0])+" "+s.theme.Hint.Render(h[1]))
	}
	return strings.Join(parts, s.theme.Hint.Render(" · "))
}
