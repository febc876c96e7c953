// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/nuvexa-tui/internal/markdown"
	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/ui/components"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
)

// printReply writes assistant text, rendered as Markdown when md is enabled.
func printReply(w io.Writer, md *markdown.Renderer, content string) {
	fmt.Fprintln(w, md.Render(content))
}

// printProducts writes product results. On a terminal they are drawn as
// cards; otherwise one line per product.
func (a *App) printProducts(w io.Writer, products []model.Product) {
	if len(products) == 0 {
		return
	}
	if a.isInteractive() {
		grid := components.NewProductGrid(products, styles.NewThemeFor(a.settings().UI.Theme))
		grid.Width = GetTerminalWidth()
		fmt.Fprintln(w)
		fmt.Fprintln(w, grid.View())
		return
	}
	fmt.Fprintln(w)
	for _, p := range products {
		fmt.Fprintln(w, productLine(p))
	}
}

// productLine is the plain-text form of a product.
func productLine(p model.Product) string {
	parts := []string{p.Name, p.FormatPrice(), p.FormatRating()}
	if p.Source != "" {
		parts = append(parts, p.Source)
	}
	line := "- " + strings.Join(parts, " | ")
	if thumb := p.Thumbnail(); thumb != "" {
		line += "\n  " + thumb
	}
	return line
}
