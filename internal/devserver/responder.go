// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// HistoryWindow is how many trailing history entries a reply may consider.
const HistoryWindow = 10

// Responder produces the assistant text for a chat request.
type Responder interface {
	Reply(ctx context.Context, message, mode string, history []gateway.HistoryEntry) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, message, mode string, history []gateway.HistoryEntry) (string, error)

// Reply calls f.
func (f ResponderFunc) Reply(ctx context.Context, message, mode string, history []gateway.HistoryEntry) (string, error) {
	return f(ctx, message, mode, history)
}

// CannedResponder answers without any language model. Replies are
// deterministic so they can be asserted on.
type CannedResponder struct{}

// Reply returns a short Markdown reply for mode.
func (CannedResponder) Reply(ctx context.Context, message, mode string, history []gateway.HistoryEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	seen := usableHistory(history)

	if mode == model.ModeShopping {
		query := ExtractProductQuery(message)
		if query == "" {
			return "What kind of product are you looking for?", nil
		}
		return fmt.Sprintf("I'm searching for options that match **%s**. "+
			"Here is what I found in the catalogue.", query), nil
	}

	var b strings.Builder
	b.WriteString("I'm NUVEXA, running against the local development server.\n\n")
	b.WriteString("You said:\n\n")
	for _, line := range strings.Split(message, "\n") {
		b.WriteString("> " + line + "\n")
	}
	if seen > 0 {
		fmt.Fprintf(&b, "\n_%d earlier messages in context._", seen)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// usableHistory counts the entries a model would see: the last
// HistoryWindow entries with a user or assistant role and some content.
func usableHistory(history []gateway.HistoryEntry) int {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	n := 0
	for _, h := range history {
		if (h.Role == model.RoleUser.String() || h.Role == model.RoleAssistant.String()) && h.Content != "" {
			n++
		}
	}
	return n
}
