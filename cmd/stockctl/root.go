package main

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/app"
)

// rootOptions holds flags shared by every subcommand. Non-empty values
// override the loaded configuration.
type rootOptions struct {
	configFile    string
	dataDir       string
	inventoryFile string
	salesFile     string
	logFile       string
	logLevel      string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "stockctl",
		Short:         "Track retail inventory and sales",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	f.StringVar(&opts.dataDir, "data-dir", "", "directory holding the backing files")
	f.StringVar(&opts.inventoryFile, "inventory-file", "", "inventory backing file")
	f.StringVar(&opts.salesFile, "sales-file", "", "sales ledger backing file")
	f.StringVar(&opts.logFile, "log-file", "", "operation log file (or stderr)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level")

	cmd.AddCommand(
		newAddCommand(opts),
		newGetCommand(opts),
		newRemoveCommand(opts),
		newRestockCommand(opts),
		newSetStockCommand(opts),
		newListCommand(opts),
		newSearchCommand(opts),
		newValueCommand(opts),
		newPurgeExpiredCommand(opts),
		newImportCommand(opts),
		newSellCommand(opts),
		newHistoryCommand(opts),
	)
	return cmd
}

func (o *rootOptions) config() (*app.Config, error) {
	var files []string
	if o.configFile != "" {
		files = append(files, o.configFile)
	}
	cfg, err := app.LoadConfig(files...)
	if err != nil {
		return nil, err
	}

	for dst, v := range map[*string]string{
		&cfg.DataDir:       o.dataDir,
		&cfg.InventoryFile: o.inventoryFile,
		&cfg.SalesFile:     o.salesFile,
		&cfg.Log.File:      o.logFile,
		&cfg.Log.Level:     o.logLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run opens the application and calls fn. Failures of fn are recorded in
// the operation log before being returned to the caller.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
		if err := fn(ctx, a); err != nil {
			zctx.From(ctx).Warn("Command failed",
				zap.String("command", cmd.CommandPath()),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
}
