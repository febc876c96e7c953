// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/store"
)

// ErrEmptyMessage is returned when there is nothing to send.
var ErrEmptyMessage = errors.New("message is empty")

// askResult is the --json payload of ask.
type askResult struct {
	Mode     string          `json:"mode"`
	Message  string          `json:"message"`
	Products []model.Product `json:"products,omitempty"`
}

func newAskCommand(app *App) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "ask [flags] <message>",
		Short: "Send one message and print the reply",
		Long: `Send a single message to the assistant and print its reply.

Use "-" as the message to read it from stdin.`,
		Example: `  nuvexa ask "What should I pack for a weekend hike?"
  nuvexa ask --mode shopping "find me a laptop"
  echo "summarize this" | nuvexa ask -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := app.readMessage(args)
			if err != nil {
				return err
			}
			if app.jsonMode {
				return outputJSON(app.Out, "ask", func() (interface{}, error) {
					return app.ask(cmd.Context(), mode, message)
				})
			}
			res, err := app.ask(cmd.Context(), mode, message)
			if err != nil {
				return err
			}
			printReply(app.Out, app.newRenderer(), res.Message)
			app.printProducts(app.Out, res.Products)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Conversation mode (default from config)")
	return cmd
}

// readMessage joins args, or reads stdin when the only arg is "-".
func (a *App) readMessage(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(io.LimitReader(a.In, 64*1024))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}

// ask runs one store send and returns the assistant turn.
func (a *App) ask(ctx context.Context, mode, message string) (*askResult, error) {
	st := a.newStore(mode)
	if err := a.checkMode(ctx, st); err != nil {
		return nil, err
	}
	if !st.SendUserMessage(ctx, message) {
		return nil, ErrEmptyMessage
	}
	return replyFrom(st.Snapshot())
}

// checkMode loads the available modes and rejects an unknown active mode.
func (a *App) checkMode(ctx context.Context, st *store.Store) error {
	st.LoadAvailableModes(ctx)
	snap := st.Snapshot()
	if _, ok := snap.ActiveModeInfo(); ok {
		return nil
	}
	ids := make([]string, 0, len(snap.AvailableModes))
	for _, m := range snap.AvailableModes {
		ids = append(ids, m.ID)
	}
	return fmt.Errorf("unknown mode %q (available: %s)", snap.ActiveMode, strings.Join(ids, ", "))
}

// replyFrom extracts the outcome of the last request from a snapshot.
func replyFrom(snap store.Snapshot) (*askResult, error) {
	if snap.HasError() {
		return nil, errors.New(snap.LastError)
	}
	msg, ok := snap.LastAssistantMessage()
	if !ok {
		return nil, errors.New("no reply received")
	}
	return &askResult{
		Mode:     snap.ActiveMode,
		Message:  msg.Content,
		Products: msg.Products,
	}, nil
}
