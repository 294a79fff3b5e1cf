package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xenking/stockroom/internal/app"
)

func newSellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sell ID QUANTITY",
		Short: "Process a sale and record it in the ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				total, err := a.Sales.ProcessSale(ctx, args[0], qty)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sale processed! Total: $%s\n", total.StringFixed(2))
				return nil
			})
		},
	}
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the sales history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				history := a.Sales.History()
				if len(history) == 0 {
					_, _ = fmt.Fprintln(out, "No sales recorded.")
					return nil
				}
				for _, r := range history {
					_, _ = fmt.Fprintf(out, "%s %s %s x%d $%s %s\n",
						r.SaleID, r.ProductID, r.ProductName, r.Quantity,
						r.TotalPrice.StringFixed(2), r.Timestamp.Format(time.RFC3339))
				}
				_, _ = fmt.Fprintf(out, "Revenue: $%s\n", a.Sales.Revenue().StringFixed(2))
				return nil
			})
		},
	}
}
