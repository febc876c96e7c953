// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// =============================================================================
// MODES
// =============================================================================

type modesResult struct {
	Modes    []model.Mode `json:"modes"`
	Fallback bool         `json:"fallback"`
}

func newModesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List conversation modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.jsonMode {
				return outputJSON(app.Out, "modes", func() (interface{}, error) {
					return app.modes(cmd.Context()), nil
				})
			}
			res := app.modes(cmd.Context())
			if res.Fallback {
				fmt.Fprintln(app.Err, WarningStyle.Render("Backend unreachable; showing built-in modes."))
			}
			active := app.settings().UI.DefaultMode
			for _, m := range res.Modes {
				marker := "  "
				if m.ID == active {
					marker = SuccessStyle.Render("* ")
				}
				fmt.Fprintf(app.Out, "%s%s %s\n", marker, LabelStyle.Render(m.Label()), DimStyle.Render(m.Description))
			}
			return nil
		},
	}
}

// modes lists the backend modes, falling back to the built-in list on any
// failure the same way the chat screen does.
func (a *App) modes(ctx context.Context) *modesResult {
	modes, err := a.newGateway().ListModes(ctx)
	if err != nil {
		return &modesResult{Modes: model.FallbackModes(), Fallback: true}
	}
	return &modesResult{Modes: modes}
}

// =============================================================================
// HEALTH
// =============================================================================

func newHealthCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend",
		Long:  "Query the backend health endpoint. Exits with status 1 when the backend is unreachable or unhealthy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.jsonMode {
				return outputJSON(app.Out, "health", func() (interface{}, error) {
					status, err := app.health(cmd.Context())
					if err != nil {
						return nil, err
					}
					return status.Raw, nil
				})
			}
			status, err := app.health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, formatKeyValue("Backend", app.settings().API.BaseURL))
			fmt.Fprintln(app.Out, formatKeyValue("Status", SuccessStyle.Render(status.Status)))
			if status.Version != "" {
				fmt.Fprintln(app.Out, formatKeyValue("Version", status.Version))
			}
			fmt.Fprintln(app.Out, formatKeyValue("OpenAI configured", strconv.FormatBool(status.OpenAIConfigured)))
			return nil
		},
	}
}

func (a *App) health(ctx context.Context) (*gateway.HealthStatus, error) {
	status, err := a.newStore("").CheckHealth(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable at %s: %w", a.settings().API.BaseURL, err)
	}
	if !status.Healthy() {
		return nil, fmt.Errorf("backend at %s reports status %q", a.settings().API.BaseURL, status.Status)
	}
	return status, nil
}
