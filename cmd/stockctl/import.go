package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/app"
	"github.com/xenking/stockroom/internal/domain/inventory"
	"github.com/xenking/stockroom/internal/storage/jsonfile"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var skipExisting bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add every product from a JSON file in inventory format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				return importProducts(ctx, cmd, a, args[0], skipExisting)
			})
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "skip products whose id is already stocked")
	return cmd
}

func importProducts(ctx context.Context, cmd *cobra.Command, a *app.App, path string, skipExisting bool) error {
	lg := zctx.From(ctx)
	lg.Info("Reading products file", zap.String("path", path))

	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(err, "open products file")
	}

	products, err := jsonfile.NewProductRepository(path).Load(ctx)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var added, skipped int
	for i := range products {
		p := &products[i]
		err := a.Inventory.Add(ctx, p)
		switch {
		case err == nil:
			added++
		case skipExisting && errors.Is(err, inventory.ErrDuplicate):
			skipped++
			lg.Info("Skipped existing product", zap.String("product_id", p.ID))
		default:
			return errors.Wrapf(err, "import product %s", p.ID)
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products, skipped %d\n", added, skipped)
	return nil
}
