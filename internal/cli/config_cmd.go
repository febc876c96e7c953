// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.Out, app.settings().String())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "get <key>",
		Short:     "Print one configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.settings().Get(args[0])
			if err != nil {
				return err
			}
			if list, ok := v.([]string); ok {
				v = strings.Join(list, ",")
			}
			fmt.Fprintln(app.Out, v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the config file",
		Long: `Set a value in the config file. Keys use dot notation:

  ` + strings.Join(config.GetAllKeys(), "\n  ") + `

List values (server.allowed_origins) are comma separated.`,
		Example:   `  nuvexa config set api.base_url http://localhost:8000`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return err
			}
			if err := setConfigValue(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s %s = %s\n", SuccessStyle.Render("✓"), args[0], args[1])
			return nil
		},
	})

	return cmd
}

// setConfigValue updates key in the file at path, creating it from
// defaults when missing. Environment overrides are not written back.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if strings.HasSuffix(path, ".json") {
			err = config.LoadJSON(cfg, path)
		} else {
			err = config.LoadTOML(cfg, path)
		}
		if err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".json") {
		return fmt.Errorf("config set only writes TOML files: %s", path)
	}

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return config.SaveTOML(cfg, path)
}
