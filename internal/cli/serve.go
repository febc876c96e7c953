// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/devserver"
	"github.com/jeranaias/nuvexa-tui/internal/logger"
)

func newServeCommand(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local development backend",
		Long: `Run a local backend that implements the chat, shop, modes and health
endpoints with canned replies and a demo product catalogue. Point the
client at it with --api-url or api.base_url.`,
		Example: `  nuvexa serve --addr 127.0.0.1:8000
  nuvexa --api-url http://127.0.0.1:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.settings().Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := devserver.New(cfg, devserver.WithLogger(logger.Component("devserver")))
			return srv.ListenAndServe(cmd.Context(), func(bound string) {
				fmt.Fprintf(app.Out, "%s http://%s\n", SuccessStyle.Render("NUVEXA dev server listening on"), bound)
				fmt.Fprintln(app.Out, DimStyle.Render("Press Ctrl+C to stop."))
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
	return cmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(app.Out, versionString())
		},
	}
}
