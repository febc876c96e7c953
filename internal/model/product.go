// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strconv"
)

// Product is a display-only product result attached to assistant messages.
type Product struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Images      []string `json:"images"`
	Source      string   `json:"source"`
}

// Thumbnail returns the first image reference, or "" when there is none.
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// FormatPrice renders the price with exactly two decimals.
func (p Product) FormatPrice() string {
	return fmt.Sprintf("$%.2f", p.Price)
}

// FormatRating renders the rating with a star prefix.
func (p Product) FormatRating() string {
	return "⭐ " + strconv.FormatFloat(p.Rating, 'f', -1, 64)
}

// Clone returns a copy of the product with its own Images slice.
func (p Product) Clone() Product {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	return out
}
