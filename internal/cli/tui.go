// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/logger"
	"github.com/jeranaias/nuvexa-tui/internal/ui/chat"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// runTUI opens the full-screen chat.
func (a *App) runTUI(cmd *cobra.Command, _ []string) error {
	if !IsTTY() || !IsStdoutTTY() {
		return &TTYRequiredError{Operation: "open the chat screen (try 'nuvexa ask' or 'nuvexa chat')"}
	}

	cfg := a.settings()

	// The watcher needs the directory to exist; a missing file is fine.
	watchPath, err := a.configFile()
	if err != nil || config.EnsureConfigDir() != nil {
		watchPath = ""
	}

	m := chat.New(chat.Options{
		Store:      a.newStore(cfg.UI.DefaultMode),
		Theme:      styles.NewThemeFor(cfg.UI.Theme),
		Config:     cfg,
		ConfigPath: watchPath,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	final, err := p.Run()
	if cm, ok := final.(chat.Model); ok {
		cm.Close()
	}
	if err != nil && cmd.Context().Err() == nil {
		logger.Get().Error("tui exited with error", "error", err)
		return fmt.Errorf("error running chat: %w", err)
	}
	return nil
}
