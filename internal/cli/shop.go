// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// ErrEmptyQuery is returned when the search query is blank.
var ErrEmptyQuery = errors.New("query is empty")

type shopResult struct {
	Query    string          `json:"query"`
	Count    int             `json:"count"`
	Products []model.Product `json:"products"`
}

func newShopCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "shop <query>",
		Short:   "Search the product catalogue",
		Example: `  nuvexa shop wireless headphones`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if app.jsonMode {
				return outputJSON(app.Out, "shop", func() (interface{}, error) {
					return app.shop(cmd.Context(), query)
				})
			}
			res, err := app.shop(cmd.Context(), query)
			if err != nil {
				return err
			}
			if res.Count == 0 {
				fmt.Fprintf(app.Out, "No products found for %q.\n", res.Query)
				return nil
			}
			fmt.Fprintln(app.Out, TitleStyle.Render(fmt.Sprintf("%d products for %q", res.Count, res.Query)))
			app.printProducts(app.Out, res.Products)
			return nil
		},
	}
}

// shop runs a store search so results are recorded exactly as in chat.
func (a *App) shop(ctx context.Context, query string) (*shopResult, error) {
	st := a.newStore(model.ModeShopping)
	if !st.SearchProducts(ctx, query) {
		return nil, ErrEmptyQuery
	}
	reply, err := replyFrom(st.Snapshot())
	if err != nil {
		return nil, err
	}
	products := reply.Products
	if products == nil {
		products = []model.Product{}
	}
	return &shopResult{
		Query:    strings.TrimSpace(query),
		Count:    len(products),
		Products: products,
	}, nil
}
