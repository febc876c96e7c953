// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/ui/styles"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// =============================================================================
// PRODUCT CARD
// =============================================================================

const (
	minCardWidth        = 24
	cardGap             = 1
	maxDescriptionLines = 3
	imageIcon           = "🖼 "
)

// ProductCard renders one product.
type ProductCard struct {
	Product model.Product
	Width   int
	theme   *styles.Theme
}

// NewProductCard creates a card for p.
func NewProductCard(p model.Product, theme *styles.Theme) *ProductCard {
	return &ProductCard{Product: p, Width: 32, theme: theme}
}

// innerWidth is the text width inside the border and padding.
func (c *ProductCard) innerWidth() int {
	w := c.Width
	if w < minCardWidth {
		w = minCardWidth
	}
	return w - 4
}

// View renders the card: name, price, description, rating and source, and
// the thumbnail reference.
func (c *ProductCard) View() string {
	inner := c.innerWidth()
	p := c.Product
	t := c.theme

	lines := []string{
		t.ProductName.Render(util.TruncateWidth(p.Name, inner)),
		t.ProductPrice.Render(p.FormatPrice()),
	}

	if desc := strings.TrimSpace(p.Description); desc != "" {
		wrapped := lipgloss.NewStyle().Width(inner).Render(desc)
		descLines := strings.Split(wrapped, "\n")
		if len(descLines) > maxDescriptionLines {
			descLines = descLines[:maxDescriptionLines]
			last := strings.TrimRight(descLines[maxDescriptionLines-1], " ")
			descLines[maxDescriptionLines-1] = util.TruncateWidth(last+" …", inner)
		}
		for _, l := range descLines {
			lines = append(lines, t.ProductDescription.Render(strings.TrimRight(l, " ")))
		}
	}

	rating := p.FormatRating()
	meta := t.ProductRating.Render(rating)
	if p.Source != "" {
		room := inner - util.StringWidth(rating) - 2
		if room > 0 {
			meta += "  " + t.ProductSource.Render(util.TruncateWidth(p.Source, room))
		}
	}
	lines = append(lines, meta)

	if thumb := p.Thumbnail(); thumb != "" {
		lines = append(lines, t.ProductImage.Render(util.TruncateWidth(imageIcon+thumb, inner)))
	}

	return t.ProductCard.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// PRODUCT GRID
// =============================================================================

// ProductGrid lays out one card per product, in order, in rows.
type ProductGrid struct {
	Products []model.Product
	Width    int
	theme    *styles.Theme
}

// NewProductGrid creates a grid for products.
func NewProductGrid(products []model.Product, theme *styles.Theme) *ProductGrid {
	return &ProductGrid{Products: products, Width: 80, theme: theme}
}

// Columns returns the number of cards per row.
func (g *ProductGrid) Columns() int {
	cols := styles.ColumnsFor(g.Width)
	if cols > len(g.Products) && len(g.Products) > 0 {
		cols = len(g.Products)
	}
	return cols
}

// CardWidth returns the outer width of each card.
func (g *ProductGrid) CardWidth() int {
	cols := g.Columns()
	if cols < 1 {
		cols = 1
	}
	w := (g.Width - cardGap*(cols-1)) / cols
	if w < minCardWidth {
		w = minCardWidth
	}
	return w
}

// Cards renders each product card individually.
func (g *ProductGrid) Cards() []string {
	width := g.CardWidth()
	cards := make([]string, len(g.Products))
	for i, p := range g.Products {
		card := NewProductCard(p, g.theme)
		card.Width = width
		cards[i] = card.View()
	}
	return cards
}

// View renders the grid. It returns "" when there are no products.
func (g *ProductGrid) View() string {
	if len(g.Products) == 0 {
		return ""
	}

	cards := g.Cards()
	cols := g.Columns()
	gap := strings.Repeat(" ", cardGap)

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := start + cols
		if end > len(cards) {
			end = len(cards)
		}
		row := make([]string, 0, 2*(end-start))
		for i, card := range cards[start:end] {
			if i > 0 {
				row = append(row, gap)
			}
			row = append(row, card)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
