// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"strings"

	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// Category groups catalogue products under a search keyword.
type Category struct {
	Name     string
	Products []model.Product
}

// Catalog is an in-memory product catalogue. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	categories []Category
}

// NewCatalog returns a catalogue over the given categories.
func NewCatalog(categories []Category) *Catalog {
	return &Catalog{categories: categories}
}

// DefaultCatalog returns the built-in demo catalogue.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultCategories())
}

// Categories returns the category names in catalogue order.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// Search returns products matching query.
//
// A query naming a category (or contained in one) returns the whole
// category. Only when no category matches are product names and
// descriptions searched. The result is never nil.
func (c *Catalog) Search(query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []model.Product{}
	if q == "" {
		return results
	}

	for _, cat := range c.categories {
		if strings.Contains(q, cat.Name) || strings.Contains(cat.Name, q) {
			for _, p := range cat.Products {
				results = append(results, p.Clone())
			}
		}
	}
	if len(results) > 0 {
		return results
	}

	for _, cat := range c.categories {
		for _, p := range cat.Products {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q) {
				results = append(results, p.Clone())
			}
		}
	}
	return results
}

// shoppingFillers are stripped, in order, from a shopping-mode chat message
// to leave the product query.
var shoppingFillers = []string{
	"find", "search", "looking for", "show me", "i want", "i need",
	"can you", "please", "help me", "get me", "buy",
}

// ExtractProductQuery reduces a chat message to a product search query.
func ExtractProductQuery(message string) string {
	q := strings.ToLower(message)
	for _, filler := range shoppingFillers {
		q = strings.ReplaceAll(q, filler, "")
	}
	return strings.TrimSpace(q)
}

func defaultCategories() []Category {
	return []Category{
		{Name: "laptop", Products: []model.Product{
			{
				Name:        `MacBook Air M2 13"`,
				Price:       1199.00,
				Description: "Powerful M2 chip, 8GB RAM, 256GB SSD, stunning Retina display",
				Rating:      4.8,
				Source:      "Apple Store",
				Images: []string{
					"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400",
					"https://images.unsplash.com/photo-1611186871348-b1ce696e52c9?w=400",
				},
			},
			{
				Name:        "Dell XPS 13 Plus",
				Price:       1299.00,
				Description: "Intel i7, 16GB RAM, 512GB SSD, edge-to-edge display",
				Rating:      4.6,
				Source:      "Dell",
				Images: []string{
					"https://images.unsplash.com/photo-1593642632823-8f785ba67e45?w=400",
					"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400",
				},
			},
		}},
		{Name: "headphones", Products: []model.Product{
			{
				Name:        "Sony WH-1000XM5",
				Price:       399.99,
				Description: "Industry-leading noise cancellation, 30-hour battery, exceptional sound",
				Rating:      4.9,
				Source:      "Amazon",
				Images: []string{
					"https://images.unsplash.com/photo-1545127398-14699f92334b?w=400",
					"https://images.unsplash.com/photo-1484704849700-f032a568e944?w=400",
				},
			},
			{
				Name:        "Apple AirPods Max",
				Price:       549.00,
				Description: "Premium over-ear design, spatial audio, active noise cancellation",
				Rating:      4.7,
				Source:      "Apple Store",
				Images: []string{
					"https://images.unsplash.com/photo-1606841837239-c5a1a4a07af7?w=400",
					"https://images.unsplash.com/photo-1625075751551-ec7c8f5cd11e?w=400",
				},
			},
		}},
		{Name: "phone", Products: []model.Product{
			{
				Name:        "iPhone 15 Pro",
				Price:       999.00,
				Description: "A17 Pro chip, titanium design, 48MP camera, USB-C",
				Rating:      4.8,
				Source:      "Apple Store",
				Images: []string{
					"https://images.unsplash.com/photo-1678911820864-e5c47f6f2e82?w=400",
					"https://images.unsplash.com/photo-1592286927505-b7e2e2b77c89?w=400",
				},
			},
			{
				Name:        "Samsung Galaxy S24 Ultra",
				Price:       1199.00,
				Description: "Snapdragon 8 Gen 3, 200MP camera, S Pen included, 12GB RAM",
				Rating:      4.7,
				Source:      "Samsung",
				Images: []string{
					"https://images.unsplash.com/photo-1610945415295-d9bbf067e59c?w=400",
					"https://images.unsplash.com/photo-1598327105666-5b89351aff97?w=400",
				},
			},
		}},
		{Name: "watch", Products: []model.Product{
			{
				Name:        "Apple Watch Series 9",
				Price:       399.00,
				Description: "S9 chip, double tap gesture, health tracking, always-on display",
				Rating:      4.8,
				Source:      "Apple Store",
				Images: []string{
					"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=400",
					"https://images.unsplash.com/photo-1434494878577-86c23bcb06b9?w=400",
				},
			},
		}},
		{Name: "tablet", Products: []model.Product{
			{
				Name:        `iPad Pro 11"`,
				Price:       799.00,
				Description: "M2 chip, Liquid Retina display, Apple Pencil support",
				Rating:      4.9,
				Source:      "Apple Store",
				Images: []string{
					"https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=400",
					"https://images.unsplash.com/photo-1585790050230-5dd28404f1b4?w=400",
				},
			},
		}},
		{Name: "camera", Products: []model.Product{
			{
				Name:        "Sony Alpha 7 IV",
				Price:       2499.00,
				Description: "33MP full-frame sensor, 4K 60fps video, advanced autofocus",
				Rating:      4.9,
				Source:      "B&H Photo",
				Images: []string{
					"https://images.unsplash.com/photo-1606980707986-77f4c90aa2f0?w=400",
					"https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=400",
				},
			},
		}},
	}
}
