// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nuvexa-tui/internal/export"
	"github.com/jeranaias/nuvexa-tui/internal/markdown"
	"github.com/jeranaias/nuvexa-tui/internal/ui/components"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case modesLoadedMsg:
		m.refresh()
		return m, nil

	case requestDoneMsg:
		m.store.Complete(msg.result)
		m.busy = m.busy.Stop()
		m.refresh()
		return m, nil

	case healthMsg:
		m.notice = healthNotice(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.notice = components.Warn("Export failed: " + msg.err.Error())
		} else {
			m.notice = components.Info("Exported to " + msg.path)
		}
		return m, nil

	case configReloadedMsg:
		m.applyConfig(msg)
		if m.watch == nil {
			return m, nil
		}
		return m, waitForConfig(m.watch)
	}

	var cmds []tea.Cmd
	if m.busy.Active() {
		var cmd tea.Cmd
		m.busy, cmd = m.busy.Update(msg)
		if cmd != nil {
			m.renderContent()
			cmds = append(cmds, cmd)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case m.showHelp && (key.Matches(msg, m.keys.CloseHelp) || key.Matches(msg, m.keys.Help)):
		m.showHelp = false
		m.renderContent()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.renderContent()
		return m, nil

	case key.Matches(msg, m.keys.NextMode):
		m.selectMode(m.snap.NextMode(1))
		return m, nil

	case key.Matches(msg, m.keys.PrevMode):
		m.selectMode(m.snap.NextMode(-1))
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.LineUp):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.LineDown):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		m.copyLastReply()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.clearConversation()
		return m, nil
	}

	switch components.ClassifyKey(msg) {
	case components.InputSubmit:
		return m.submit()
	case components.InputNewline:
		if len([]rune(m.input.Value())) < MaxDraftLength {
			m.input.InsertString("\n")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the draft, or runs it as a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	draft := util.NormalizeInput(m.input.Value())

	if cmd, ok := ParseCommand(draft); ok {
		m.input.Reset()
		return m.runCommand(cmd)
	}

	if !components.CanSubmit(draft, m.snap.IsBusy) {
		return m, nil
	}
	req, ok := m.store.BeginSend(draft)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	return m.startRequest(m.performCmd(req))
}

// startRequest shows the busy indicator and schedules perform.
func (m Model) startRequest(perform tea.Cmd) (tea.Model, tea.Cmd) {
	m.notice = components.Notice{}
	m.showHelp = false
	var tick tea.Cmd
	m.busy, tick = m.busy.Start()
	m.refresh()
	return m, tea.Batch(tick, perform)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) runCommand(cmd Command) (tea.Model, tea.Cmd) {
	switch cmd.Name {
	case "help":
		m.showHelp = !m.showHelp
		m.renderContent()
		return m, nil

	case "clear":
		m.clearConversation()
		return m, nil

	case "mode":
		if cmd.Args == "" {
			m.selectMode(m.snap.NextMode(1))
			return m, nil
		}
		if _, ok := m.snap.Mode(cmd.Args); !ok {
			m.notice = components.Warn(fmt.Sprintf("Unknown mode %q (try /modes)", cmd.Args))
			return m, nil
		}
		m.selectMode(cmd.Args)
		return m, nil

	case "modes":
		m.notice = components.Info("Reloading modes...")
		return m, m.loadModesCmd()

	case "shop":
		if util.IsBlank(cmd.Args) {
			m.notice = components.Warn("Usage: /shop <query>")
			return m, nil
		}
		req, ok := m.store.BeginSearch(cmd.Args)
		if !ok {
			m.notice = components.Warn("Wait for the current reply to finish")
			return m, nil
		}
		return m.startRequest(m.performCmd(req))

	case "health":
		m.notice = components.Info("Checking backend...")
		return m, m.healthCmd()

	case "export":
		return m.exportConversation(cmd.Args)

	case "copy":
		m.copyLastReply()
		return m, nil

	case "quit":
		m.Close()
		return m, tea.Quit
	}

	m.notice = components.Warn(fmt.Sprintf("Unknown command /%s (try /help)", cmd.Name))
	return m, nil
}

func (m *Model) selectMode(id string) {
	if id == "" {
		return
	}
	m.store.SelectMode(id)
	m.refresh()
	if mode, ok := m.snap.ActiveModeInfo(); ok {
		m.notice = components.Info("Mode: " + mode.Label())
	}
}

func (m *Model) clearConversation() {
	if m.snap.IsBusy {
		m.notice = components.Warn("Wait for the current reply to finish")
		return
	}
	m.store.ResetHistory()
	m.notice = components.Info("Conversation cleared")
	m.refresh()
}

func (m *Model) copyLastReply() {
	msg, ok := m.snap.LastAssistantMessage()
	if !ok || strings.TrimSpace(msg.Content) == "" {
		m.notice = components.Warn("No reply to copy")
		return
	}
	if err := m.clipboard(msg.Content); err != nil {
		m.log.Warn("clipboard write failed", "error", err)
		m.notice = components.Warn("Failed to copy: " + err.Error())
		return
	}
	m.notice = components.Info(fmt.Sprintf("Copied reply (%d chars)", len([]rune(msg.Content))))
}

func (m Model) exportConversation(format string) (tea.Model, tea.Cmd) {
	if format == "" {
		format = m.cfg.Export.Format
	}
	opts := export.DefaultOptions()
	opts.OutputDir = m.cfg.Export.Dir
	opts.IncludeTimestamps = true

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		m.notice = components.Warn(err.Error())
		return m, nil
	}
	if m.snap.IsEmpty() {
		m.notice = components.Warn("Nothing to export yet")
		return m, nil
	}

	transcript := export.NewTranscript(m.snap, m.now())
	return m, func() tea.Msg {
		path, err := export.ExportToFile(transcript, exporter, opts)
		return exportDoneMsg{path: path, err: err}
	}
}

func healthNotice(msg healthMsg) components.Notice {
	if msg.err != nil {
		return components.Warn("Backend unreachable: " + msg.err.Error())
	}
	if !msg.status.Healthy() {
		return components.Warn("Backend status: " + msg.status.Status)
	}
	openai := "no"
	if msg.status.OpenAIConfigured {
		openai = "yes"
	}
	text := "Backend healthy"
	if msg.status.Version != "" {
		text += " · v" + msg.status.Version
	}
	return components.Info(text + " · OpenAI configured: " + openai)
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m *Model) applyConfig(msg configReloadedMsg) {
	if msg.err != nil {
		m.log.Warn("config reload failed", "error", msg.err)
		m.notice = components.Warn("Config reload failed: " + msg.err.Error())
		return
	}
	if msg.cfg == nil {
		return
	}
	old := m.cfg
	m.cfg = msg.cfg

	if msg.cfg.UI.Theme != old.UI.Theme {
		*m.theme = *styles.NewThemeFor(msg.cfg.UI.Theme)
		m.theme.SetSize(m.width, m.height)
		m.md.SetStyle(markdown.StyleFor(m.theme.IsDark))
	}
	m.md.SetEnabled(msg.cfg.UI.Markdown)
	m.messages.ShowTimestamps = msg.cfg.UI.ShowTimestamps

	if msg.cfg.UI.DefaultMode != old.UI.DefaultMode && m.snap.IsEmpty() {
		m.store.SelectMode(msg.cfg.UI.DefaultMode)
	}

	m.log.Info("config reloaded")
	m.notice = components.Info("Config reloaded")
	m.refresh()
}
