// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nuvexa-tui/internal/ui/components"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// minViewportHeight keeps the transcript usable on tiny terminals.
const minViewportHeight = 3

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting NUVEXA..."
	}

	parts := []string{m.header.View()}
	if sel := m.selector.View(m.snap.AvailableModes, m.snap.ActiveMode); sel != "" {
		parts = append(parts, sel)
	}
	parts = append(parts,
		m.viewport.View(),
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.status.View(m.snap, m.notice),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.status.SetWidth(width)
	m.messages.SetWidth(width - 2)
	m.input.SetWidth(width - 2)
	m.ready = true
	m.layout()
	m.renderContent()
}

// layout sizes the viewport to whatever the fixed rows leave.
func (m *Model) layout() {
	fixed := m.header.Height() + inputHeight + 1 + 1
	if len(m.snap.AvailableModes) > 0 {
		fixed++
	}
	h := m.height - fixed
	if h < minViewportHeight {
		h = minViewportHeight
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	m.welcome.SetSize(m.width, h)
}

// refresh re-reads the store and re-renders. The viewport jumps to the
// bottom whenever the history or busy state changed.
func (m *Model) refresh() {
	prev := m.snap
	m.snap = m.store.Snapshot()

	m.input.Placeholder = components.Placeholder(m.snap.ActiveMode)
	m.welcome.SetMode(m.snap.ActiveMode)
	m.layout()
	m.renderContent()

	if len(prev.History) != len(m.snap.History) || prev.IsBusy != m.snap.IsBusy {
		m.viewport.GotoBottom()
	}
}

// renderContent fills the viewport with help, the welcome screen, or the
// transcript followed by the busy dots.
func (m *Model) renderContent() {
	atBottom := m.viewport.AtBottom()

	var content string
	switch {
	case m.showHelp:
		content = m.helpView()
	case m.snap.IsEmpty() && !m.busy.Active():
		content = m.welcome.View()
	default:
		content = m.messages.View(m.snap.History)
		if dots := m.busy.View(); dots != "" {
			content += "\n\n" + dots
		}
	}
	m.viewport.SetContent(content)

	if atBottom && !m.showHelp {
		m.viewport.GotoBottom()
	}
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.WelcomeTitle.Render("Commands"))
	b.WriteString("\n\n")

	width := 0
	for _, c := range Commands {
		if w := util.StringWidth(c.Usage); w > width {
			width = w
		}
	}
	for _, c := range Commands {
		b.WriteString("  ")
		b.WriteString(m.theme.HintKey.Render(util.PadRight(c.Usage, width)))
		b.WriteString("  ")
		b.WriteString(m.theme.Hint.Render(c.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.WelcomeTitle.Render("Keys"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Hint.Render("esc to close"))
	return b.String()
}
