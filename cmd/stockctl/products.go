package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/xenking/stockroom/internal/app"
	"github.com/xenking/stockroom/internal/domain/inventory"
	"github.com/xenking/stockroom/internal/domain/product"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the inventory",
	}

	var (
		warranty int
		brand    string
	)
	electronic := &cobra.Command{
		Use:   "electronic ID NAME PRICE QUANTITY",
		Short: "Add an electronic product",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addProduct(cmd, opts, args, product.Electronic{WarrantyYears: warranty, Brand: brand})
		},
	}
	electronic.Flags().IntVar(&warranty, "warranty", 0, "warranty period in years")
	electronic.Flags().StringVar(&brand, "brand", "", "brand name")

	var size, material string
	clothing := &cobra.Command{
		Use:   "clothing ID NAME PRICE QUANTITY",
		Short: "Add a clothing product",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addProduct(cmd, opts, args, product.Clothing{Size: product.Size(size), Material: material})
		},
	}
	clothing.Flags().StringVar(&size, "size", string(product.SizeM), "size (S, M, L, XL)")
	clothing.Flags().StringVar(&material, "material", "", "material")

	var expiry string
	grocery := &cobra.Command{
		Use:   "grocery ID NAME PRICE QUANTITY",
		Short: "Add a grocery product",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := product.NewGrocery(expiry)
			if err != nil {
				return err
			}
			return addProduct(cmd, opts, args, g)
		},
	}
	grocery.Flags().StringVar(&expiry, "expiry", "", "expiry date (YYYY-MM-DD)")
	_ = grocery.MarkFlagRequired("expiry")

	cmd.AddCommand(electronic, clothing, grocery)
	return cmd
}

func addProduct(cmd *cobra.Command, opts *rootOptions, args []string, v product.Variant) error {
	price, err := decimal.NewFromString(args[2])
	if err != nil {
		return errors.Wrapf(err, "parse price %q", args[2])
	}
	qty, err := parseQuantity(args[3])
	if err != nil {
		return err
	}
	p, err := product.New(args[0], args[1], price, qty, v)
	if err != nil {
		return err
	}

	return opts.run(cmd, func(ctx context.Context, a *app.App) error {
		if err := a.Inventory.Add(ctx, p); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", p.Name, p.ID)
		return nil
	})
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(_ context.Context, a *app.App) error {
				p, ok := a.Inventory.Get(args[0])
				if !ok {
					return &inventory.NotFoundError{ProductID: args[0]}
				}
				printDetails(cmd.OutOrStdout(), p.Describe(time.Now()))
				return nil
			})
		},
	}
}

func newRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Inventory.Remove(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newRestockCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restock ID QUANTITY",
		Short: "Add units to a product's stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Inventory.Restock(ctx, args[0], qty); err != nil {
					return err
				}
				p, _ := a.Inventory.Get(args[0])
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restocked %s, stock: %d\n", p.ID, p.Quantity)
				return nil
			})
		},
	}
}

func newSetStockCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-stock ID QUANTITY",
		Short: "Set a product's stock level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Inventory.SetQuantity(ctx, args[0], qty); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated stock for %s: %d\n", args[0], qty)
				return nil
			})
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, a *app.App) error {
				details := a.Inventory.Details()
				if len(details) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No products in inventory.")
				}
				for _, d := range details {
					printDetails(cmd.OutOrStdout(), d)
				}
				return nil
			})
		},
	}
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search products",
	}
	byName := &cobra.Command{
		Use:   "name TEXT",
		Short: "Find products whose name contains TEXT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(_ context.Context, a *app.App) error {
				printProducts(cmd.OutOrStdout(), a.Inventory.SearchByName(args[0]))
				return nil
			})
		},
	}
	byType := &cobra.Command{
		Use:   "type KIND",
		Short: "Find products of a category (Electronic, Clothing, Grocery)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := product.ParseKind(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(_ context.Context, a *app.App) error {
				printProducts(cmd.OutOrStdout(), a.Inventory.SearchByType(kind))
				return nil
			})
		},
	}
	cmd.AddCommand(byName, byType)
	return cmd
}

func newValueCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "value",
		Short: "Show the total inventory value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, a *app.App) error {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total inventory value: $%s\n",
					a.Inventory.TotalValue().StringFixed(2))
				return nil
			})
		},
	}
}

func newPurgeExpiredCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-expired",
		Short: "Remove expired grocery products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				removed, err := a.Inventory.RemoveExpired(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired products\n", len(removed))
				for _, id := range removed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", id)
				}
				return nil
			})
		},
	}
}

func parseQuantity(s string) (int, error) {
	qty, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse quantity %q", s)
	}
	return qty, nil
}

func printProducts(w io.Writer, products []product.Product) {
	if len(products) == 0 {
		_, _ = fmt.Fprintln(w, "No products found.")
		return
	}
	for i := range products {
		_, _ = fmt.Fprintln(w, products[i].String())
	}
}

func printDetails(w io.Writer, d product.Details) {
	fields := []string{
		"type=" + string(d.Kind),
		"product_id=" + d.ID,
		"name=" + d.Name,
		"price=" + d.Price.StringFixed(2),
		"quantity=" + strconv.Itoa(d.Quantity),
	}
	for _, attr := range d.Attributes {
		fields = append(fields, attr.Key+"="+attr.Value)
	}
	_, _ = fmt.Fprintln(w, strings.Join(fields, " "))
}
