// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/logger"
	"github.com/jeranaias/nuvexa-tui/internal/markdown"
	"github.com/jeranaias/nuvexa-tui/internal/store"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App holds the state shared by every command: streams, global flags and
// the loaded configuration.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	apiURL     string
	configPath string
	debug      bool
	jsonMode   bool

	cfg *config.Config

	// interactive reports whether output is a terminal. Rich rendering
	// (Markdown, product cards) is only used when it returns true.
	interactive func() bool
}

// NewApp returns an App bound to the process streams.
func NewApp() *App {
	return &App{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		interactive: IsStdoutTTY,
	}
}

// Execute runs the root command with the process arguments. SIGINT and
// SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand(NewApp()).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "nuvexa",
		Short: "Terminal client for the NUVEXA assistant",
		Long: `NUVEXA is a chat assistant with a shopping mode. Run without a
subcommand to open the full-screen chat, or use the subcommands below for
one-off questions, product searches and scripting.`,
		Version:           Version,
		RunE:              app.runTUI,
		PersistentPreRunE: app.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logger.Close() },
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetVersionTemplate(versionString())
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&app.apiURL, "api-url", "", "Backend base URL (overrides config and NUVEXA_API_URL)")
	flags.StringVar(&app.configPath, "config", "", "Config file path (default ~/.nuvexa/config.toml)")
	flags.BoolVar(&app.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&app.jsonMode, "json", false, "Print machine-readable JSON (ask, shop, modes, health)")

	root.AddCommand(
		newAskCommand(app),
		newChatCommand(app),
		newShopCommand(app),
		newModesCommand(app),
		newHealthCommand(app),
		newConfigCommand(app),
		newServeCommand(app),
		newVersionCommand(app),
	)
	return root
}

func versionString() string {
	return fmt.Sprintf("nuvexa %s\n  commit: %s\n  built:  %s\n", Version, GitCommit, BuildDate)
}

// setup loads configuration, applies global flags and starts file logging.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	a.cfg = cfg
	config.SetGlobal(cfg)

	level := logger.ParseLevel(cfg.Logging.Level)
	if a.debug {
		level = slog.LevelDebug
	}
	if cfg.Logging.File != "" {
		if err := logger.Init(cfg.Logging.File, level); err != nil {
			fmt.Fprintf(a.Err, "Warning: %v (logging disabled)\n", err)
		}
	}
	logger.Get().Debug("command started", "command", cmd.CommandPath(), "api", cfg.API.BaseURL)
	return nil
}

// loadConfig reads --config when given, otherwise the default locations.
// A default-location file that fails to parse is reported and defaults
// are used. An explicit --config file must parse, but may not exist yet
// so that "config set" can create it.
func (a *App) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); errors.Is(err, os.ErrNotExist) {
			if err := config.LoadDotEnv(); err != nil {
				return nil, err
			}
			cfg := config.Default()
			cfg.ApplyEnvOverrides()
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid config: %w", err)
			}
			return cfg, nil
		}
		return config.LoadFromPath(a.configPath)
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(a.Err, "Warning: %v (using defaults)\n", err)
	}
	return cfg, nil
}

// settings returns the loaded config, or defaults before setup has run.
func (a *App) settings() *config.Config {
	if a.cfg == nil {
		cfg := config.Default()
		cfg.SetDefaults()
		a.cfg = cfg
	}
	return a.cfg
}

// configFile returns the file config commands read and write.
func (a *App) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPathTOML()
}

func (a *App) newGateway() *gateway.Client {
	cfg := a.settings()
	return gateway.New(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout()).
		WithLogger(logger.Component("gateway"))
}

func (a *App) newStore(mode string) *store.Store {
	if mode == "" {
		mode = a.settings().UI.DefaultMode
	}
	return store.New(a.newGateway(),
		store.WithInitialMode(mode),
		store.WithLogger(logger.Component("store")),
	)
}

func (a *App) isInteractive() bool {
	return a.interactive != nil && a.interactive()
}

// newRenderer returns a Markdown renderer for terminal output, or a
// disabled one when output is not a terminal or Markdown is turned off.
func (a *App) newRenderer() *markdown.Renderer {
	cfg := a.settings()
	theme := styles.NewThemeFor(cfg.UI.Theme)
	width := cfg.UI.WordWrap
	if a.isInteractive() {
		width = min(GetTerminalWidth(), width)
	}
	md := markdown.New(markdown.StyleFor(theme.IsDark), width)
	md.SetEnabled(cfg.UI.Markdown && a.isInteractive())
	return md
}
