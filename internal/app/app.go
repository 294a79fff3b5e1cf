package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/inventory"
	"github.com/xenking/stockroom/internal/domain/sales"
	"github.com/xenking/stockroom/internal/storage/jsonfile"
)

// App bundles the domain services consumed by presentation shells.
type App struct {
	Inventory *inventory.Inventory
	Sales     *sales.Ledger
}

// New creates the backing-file repositories and loads the inventory and the
// sales ledger. It is the single wiring point for the application.
func New(ctx context.Context, lg *zap.Logger, cfg *Config) (*App, error) {
	if err := cfg.ensureDataDir(); err != nil {
		return nil, err
	}

	lg.Debug("Opening stores",
		zap.String("inventory", cfg.InventoryPath()),
		zap.String("sales", cfg.SalesPath()),
	)

	inv, err := inventory.New(ctx,
		jsonfile.NewProductRepository(cfg.InventoryPath()),
		inventory.WithLogger(lg.Named("inventory")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open inventory")
	}

	ledger, err := sales.New(ctx, inv,
		jsonfile.NewSaleRepository(cfg.SalesPath()),
		sales.WithLogger(lg.Named("sales")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open sales ledger")
	}

	return &App{Inventory: inv, Sales: ledger}, nil
}

// Run builds the logger, attaches it to ctx, opens the application and
// calls fn with it. The logger is flushed before Run returns.
func Run(ctx context.Context, cfg *Config, fn func(ctx context.Context, a *App) error) error {
	if err := cfg.ensureDataDir(); err != nil {
		return err
	}
	lg, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	ctx = zctx.Base(ctx, lg)

	a, err := New(ctx, lg, cfg)
	if err != nil {
		lg.Error("Initialization failed", zap.Error(err))
		return err
	}
	return fn(ctx, a)
}
