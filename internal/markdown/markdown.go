// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders assistant replies for the terminal with glamour.
//
// Rendering never fails from the caller's point of view: when glamour cannot
// be initialised or returns an error, the raw text is returned unchanged.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// Glamour standard style names.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// DefaultWordWrap is used when no positive width has been set.
const DefaultWordWrap = 80

// StyleFor returns the glamour style matching a terminal background.
func StyleFor(isDark bool) string {
	if isDark {
		return StyleDark
	}
	return StyleLight
}

// Renderer renders Markdown at a fixed wrap width. The underlying glamour
// renderer is rebuilt lazily after the width or style changes.
type Renderer struct {
	mu      sync.Mutex
	style   string
	width   int
	enabled bool
	tr      *glamour.TermRenderer
	failed  bool
}

// New creates a renderer for the given glamour style and wrap width.
func New(style string, width int) *Renderer {
	if width <= 0 {
		width = DefaultWordWrap
	}
	if style == "" {
		style = StyleDark
	}
	return &Renderer{style: style, width: width, enabled: true}
}

// SetWidth changes the wrap width.
func (r *Renderer) SetWidth(width int) {
	if width <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if width != r.width {
		r.width = width
		r.tr, r.failed = nil, false
	}
}

// SetStyle changes the glamour style.
func (r *Renderer) SetStyle(style string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if style != "" && style != r.style {
		r.style = style
		r.tr, r.failed = nil, false
	}
}

// SetEnabled toggles rendering. A disabled renderer returns its input.
func (r *Renderer) SetEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()
}

// Width returns the current wrap width.
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// Render returns content rendered as terminal Markdown with surrounding
// blank lines removed.
func (r *Renderer) Render(content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return content
	}
	tr := r.rendererLocked()
	if tr == nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return trimBlankLines(out)
}

// trimBlankLines drops the padding lines glamour puts around a document.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	blank := func(l string) bool { return strings.TrimSpace(ansi.Strip(l)) == "" }
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) rendererLocked() *glamour.TermRenderer {
	if r.tr != nil || r.failed {
		return r.tr
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		r.failed = true
		return nil
	}
	r.tr = tr
	return tr
}
