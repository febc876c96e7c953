// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/export"
	"github.com/jeranaias/nuvexa-tui/internal/markdown"
	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/store"
	"github.com/jeranaias/nuvexa-tui/internal/ui/chat"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor that loads and saves history at
// historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// defaultHistoryFile is chat_history in the config directory, or the temp
// directory when that cannot be resolved.
func defaultHistoryFile() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chat_history")
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line. Non-blank input is added to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if !util.IsBlank(input) {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCommand(app *App) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a line-based chat session",
		Long: `Start an interactive chat in the terminal without the full-screen UI.

Slash commands work as in the chat screen: /help, /clear, /mode [id],
/modes, /shop <query>, /health, /export [md|json], /copy and /quit.
Ctrl+D or Ctrl+C exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newREPL(mode)
			return session.run(cmd.Context(), NewChatCLI(defaultHistoryFile()))
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Starting mode (default from config)")
	return cmd
}

// =============================================================================
// SESSION
// =============================================================================

// repl is one line-based conversation over a store.
type repl struct {
	cfg       *config.Config
	store     *store.Store
	md        *markdown.Renderer
	out       io.Writer
	errOut    io.Writer
	products  func(io.Writer, []model.Product)
	clipboard func(string) error
	now       func() time.Time
}

func (a *App) newREPL(mode string) *repl {
	return &repl{
		cfg:       a.settings(),
		store:     a.newStore(mode),
		md:        a.newRenderer(),
		out:       a.Out,
		errOut:    a.Err,
		products:  a.printProducts,
		clipboard: clipboard.WriteAll,
		now:       time.Now,
	}
}

// lineReader is the part of ChatCLI the loop needs.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

func (r *repl) run(ctx context.Context, in lineReader) error {
	defer in.Close()

	r.store.LoadAvailableModes(ctx)
	r.printBanner()

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := in.ReadInput(PromptStyle.Render(r.prompt()))
		if err != nil {
			// Ctrl+C, Ctrl+D and closed stdin all end the session.
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}
		if r.handleLine(ctx, input) {
			return nil
		}
	}
}

func (r *repl) prompt() string {
	return r.store.Snapshot().ActiveMode + "> "
}

func (r *repl) printBanner() {
	snap := r.store.Snapshot()
	title := "🤖 NUVEXA"
	if mode, ok := snap.ActiveModeInfo(); ok {
		title += DimStyle.Render(" · " + mode.Label())
	}
	fmt.Fprintln(r.out, TitleStyle.Render(title))
	fmt.Fprintln(r.out, DimStyle.Render("Type a message, or /help for commands."))
	fmt.Fprintln(r.out)
}

// handleLine processes one input line and reports whether to exit.
func (r *repl) handleLine(ctx context.Context, input string) (quit bool) {
	input = util.NormalizeInput(input)
	if util.IsBlank(input) {
		return false
	}

	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
		return true
	}

	if cmd, ok := chat.ParseCommand(input); ok {
		return r.runCommand(ctx, cmd)
	}

	r.store.SendUserMessage(ctx, input)
	r.printOutcome()
	return false
}

// printOutcome prints the last reply, or the error that replaced it.
func (r *repl) printOutcome() {
	snap := r.store.Snapshot()
	if snap.HasError() {
		r.warn(snap.LastError)
		return
	}
	msg, ok := snap.LastAssistantMessage()
	if !ok {
		return
	}
	fmt.Fprintln(r.out)
	printReply(r.out, r.md, msg.Content)
	r.products(r.out, msg.Products)
	fmt.Fprintln(r.out)
}

func (r *repl) info(text string) {
	fmt.Fprintln(r.out, DimStyle.Render(text))
}

func (r *repl) warn(text string) {
	fmt.Fprintln(r.errOut, ErrorStyle.Render("[Error]")+" "+text)
}

func (r *repl) runCommand(ctx context.Context, cmd chat.Command) bool {
	switch cmd.Name {
	case "help":
		for _, c := range chat.Commands {
			fmt.Fprintln(r.out, formatKeyValue(c.Usage, c.Description))
		}

	case "clear":
		r.store.ResetHistory()
		r.info("Conversation cleared")

	case "mode":
		snap := r.store.Snapshot()
		id := cmd.Args
		if id == "" {
			id = snap.NextMode(1)
		} else if _, ok := snap.Mode(id); !ok {
			r.warn(fmt.Sprintf("Unknown mode %q (try /modes)", id))
			return false
		}
		r.store.SelectMode(id)
		if mode, ok := r.store.Snapshot().ActiveModeInfo(); ok {
			r.info("Mode: " + mode.Label())
		}

	case "modes":
		r.store.LoadAvailableModes(ctx)
		snap := r.store.Snapshot()
		for _, m := range snap.AvailableModes {
			marker := "  "
			if m.ID == snap.ActiveMode {
				marker = "* "
			}
			fmt.Fprintln(r.out, marker+m.Label()+DimStyle.Render("  "+m.Description))
		}

	case "shop":
		if util.IsBlank(cmd.Args) {
			r.warn("Usage: /shop <query>")
			return false
		}
		r.store.SearchProducts(ctx, cmd.Args)
		r.printOutcome()

	case "health":
		status, err := r.store.CheckHealth(ctx)
		switch {
		case err != nil:
			r.warn("Backend unreachable: " + err.Error())
		case !status.Healthy():
			r.warn("Backend status: " + status.Status)
		default:
			r.info(fmt.Sprintf("Backend healthy · v%s · OpenAI configured: %t", status.Version, status.OpenAIConfigured))
		}

	case "export":
		r.export(cmd.Args)

	case "copy":
		msg, ok := r.store.Snapshot().LastAssistantMessage()
		if !ok || util.IsBlank(msg.Content) {
			r.warn("No reply to copy")
			return false
		}
		if err := r.clipboard(msg.Content); err != nil {
			r.warn("Failed to copy: " + err.Error())
			return false
		}
		r.info(fmt.Sprintf("Copied reply (%d chars)", len([]rune(msg.Content))))

	case "quit":
		return true

	default:
		r.warn(fmt.Sprintf("Unknown command /%s (try /help)", cmd.Name))
	}
	return false
}

func (r *repl) export(format string) {
	if format == "" {
		format = r.cfg.Export.Format
	}
	opts := export.DefaultOptions()
	opts.OutputDir = r.cfg.Export.Dir
	opts.IncludeTimestamps = true

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		r.warn(err.Error())
		return
	}
	snap := r.store.Snapshot()
	if snap.IsEmpty() {
		r.warn("Nothing to export yet")
		return
	}
	path, err := export.ExportToFile(export.NewTranscript(snap, r.now()), exporter, opts)
	if err != nil {
		r.warn("Export failed: " + err.Error())
		return
	}
	r.info("Saved " + path)
}
