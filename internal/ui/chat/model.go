// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/logger"
	"github.com/jeranaias/nuvexa-tui/internal/markdown"
	"github.com/jeranaias/nuvexa-tui/internal/store"
	"github.com/jeranaias/nuvexa-tui/internal/ui/components"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// MaxDraftLength matches the backend's message length limit.
const MaxDraftLength = 2000

// inputHeight is the number of visible draft lines.
const inputHeight = 3

// =============================================================================
// MODEL
// =============================================================================

// Options configures a chat model.
type Options struct {
	Store  *store.Store
	Theme  *styles.Theme
	Config *config.Config

	// ConfigPath is watched for changes when non-empty.
	ConfigPath string

	// Clipboard writes text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(string) error

	// Now is used for export timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model of the chat screen.
type Model struct {
	store *store.Store
	theme *styles.Theme
	cfg   *config.Config
	keys  KeyMap
	log   *slog.Logger

	header   *components.Header
	welcome  *components.Welcome
	messages *components.MessageList
	selector *components.ModeSelector
	status   *components.StatusLine
	busy     components.BusyIndicator
	md       *markdown.Renderer
	help     help.Model

	input    textarea.Model
	viewport viewport.Model

	snap     store.Snapshot
	notice   components.Notice
	showHelp bool
	width    int
	height   int
	ready    bool

	clipboard func(string) error
	now       func() time.Time
	watch     *configWatch
}

// configWatch forwards watcher callbacks into the update loop.
type configWatch struct {
	watcher *config.Watcher
	ch      chan configReloadedMsg
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewThemeFor(cfg.UI.Theme)
	}

	ta := textarea.New()
	ta.Placeholder = components.Placeholder(cfg.UI.DefaultMode)
	ta.Prompt = "› "
	ta.ShowLineNumbers = false
	ta.CharLimit = MaxDraftLength
	ta.SetHeight(inputHeight)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	md := markdown.New(markdown.StyleFor(theme.IsDark), markdown.DefaultWordWrap)
	md.SetEnabled(cfg.UI.Markdown)

	messages := components.NewMessageList(theme, md)
	messages.ShowTimestamps = cfg.UI.ShowTimestamps

	m := Model{
		store:     opts.Store,
		theme:     theme,
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		log:       logger.Component("chat"),
		header:    components.NewHeader(theme),
		welcome:   components.NewWelcome(theme),
		messages:  messages,
		selector:  components.NewModeSelector(theme),
		status:    components.NewStatusLine(theme),
		busy:      components.NewBusyIndicator(theme),
		md:        md,
		help:      help.New(),
		input:     ta,
		viewport:  viewport.New(80, 20),
		clipboard: opts.Clipboard,
		now:       opts.Now,
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.WriteAll
	}
	if m.now == nil {
		m.now = time.Now
	}
	if opts.ConfigPath != "" {
		m.watch = m.newConfigWatch(opts.ConfigPath)
	}
	m.refresh()
	return m
}

// newConfigWatch sets up a watcher whose callbacks are delivered as
// configReloadedMsg. It returns nil if the file cannot be watched.
func (m Model) newConfigWatch(path string) *configWatch {
	ctx, cancel := context.WithCancel(context.Background())
	cw := &configWatch{ch: make(chan configReloadedMsg, 1), ctx: ctx, cancel: cancel}

	w, err := config.NewWatcher(path, func(cfg *config.Config, err error) {
		select {
		case cw.ch <- configReloadedMsg{cfg: cfg, err: err}:
		case <-ctx.Done():
		}
	})
	if err != nil {
		cancel()
		m.log.Warn("config watch disabled", "path", path, "error", err)
		return nil
	}
	cw.watcher = w
	return cw
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init loads the available modes and starts the config watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.loadModesCmd()}
	if m.watch != nil {
		cw := m.watch
		cmds = append(cmds, func() tea.Msg {
			go cw.watcher.Run(cw.ctx)
			return waitForConfig(cw)()
		})
	}
	return tea.Batch(cmds...)
}

// Close stops background work started by Init.
func (m Model) Close() {
	if m.watch != nil {
		m.watch.cancel()
	}
}

// Snapshot returns the store state the model last rendered.
func (m Model) Snapshot() store.Snapshot {
	return m.snap
}

// Draft returns the current input draft.
func (m Model) Draft() string {
	return m.input.Value()
}

// Notice returns the current status notice.
func (m Model) Notice() components.Notice {
	return m.notice
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadModesCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		st.LoadAvailableModes(context.Background())
		return modesLoadedMsg{}
	}
}

func (m Model) performCmd(req *store.Request) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return requestDoneMsg{result: st.Perform(context.Background(), req)}
	}
}

func (m Model) healthCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		status, err := st.CheckHealth(context.Background())
		return healthMsg{status: status, err: err}
	}
}

func waitForConfig(cw *configWatch) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-cw.ch:
			return msg
		case <-cw.ctx.Done():
			return nil
		}
	}
}
