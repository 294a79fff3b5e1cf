package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/product"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		DataDir:       filepath.Join(t.TempDir(), "data"),
		InventoryFile: "inventory.json",
		SalesFile:     "sales.json",
		Log:           LogConfig{File: "inventory.log", Level: "info"},
	}
}

func TestNew_SaleSurvivesReload(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, zap.NewNop(), cfg)
	require.NoError(t, err)

	p, err := product.New("e3", "Tablet", decimal.RequireFromString("499.99"), 5,
		product.Electronic{WarrantyYears: 1, Brand: "Samsung"})
	require.NoError(t, err)
	require.NoError(t, a.Inventory.Add(ctx, p))

	total, err := a.Sales.ProcessSale(ctx, "e3", 2)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("999.98").Equal(total))
	_, err = a.Sales.ProcessSale(ctx, "e3", 1)
	require.NoError(t, err)

	assert.FileExists(t, cfg.SalesPath())
	assert.FileExists(t, cfg.InventoryPath())

	reopened, err := New(ctx, zap.NewNop(), cfg)
	require.NoError(t, err)

	got, ok := reopened.Inventory.Get("e3")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)

	history := reopened.Sales.History()
	require.Len(t, history, 2)
	assert.Equal(t, "SALE_1", history[0].SaleID)
	assert.Equal(t, "SALE_2", history[1].SaleID)
	assert.Equal(t, a.Sales.History()[0].Timestamp.UnixNano(), history[0].Timestamp.UnixNano())
}

func TestNew_MalformedInventory(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(cfg.InventoryPath(), []byte(`[{"type":"Spaceship"}]`), 0o644))

	_, err := New(context.Background(), zap.NewNop(), cfg)
	require.ErrorIs(t, err, product.ErrInvalidData)
	assert.Contains(t, err.Error(), "open inventory")
}

func TestRun_WritesOperationLog(t *testing.T) {
	cfg := testConfig(t)

	err := Run(context.Background(), cfg, func(ctx context.Context, a *App) error {
		assert.NotNil(t, zctx.From(ctx))
		p, err := product.New("c1", "T-shirt", decimal.RequireFromString("19.99"), 3,
			product.Clothing{Size: product.SizeM, Material: "Cotton"})
		require.NoError(t, err)
		return a.Inventory.Add(ctx, p)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "inventory.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Added product")
	assert.Contains(t, string(data), "c1")
}

func TestRun_BadLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "loud"

	err := Run(context.Background(), cfg, func(context.Context, *App) error {
		t.Fatal("must not be called")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())

	cfg.Log.Level = "loud"
	require.ErrorContains(t, cfg.Validate(), "parse log level")

	cfg = testConfig(t)
	cfg.SalesFile = ""
	require.ErrorContains(t, cfg.Validate(), "STOCK_SALES_FILE")
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{
		DataDir:       "/var/lib/stock",
		InventoryFile: "inventory.json",
		SalesFile:     "/tmp/sales.json",
		Log:           LogConfig{File: "stderr"},
	}
	assert.Equal(t, "/var/lib/stock/inventory.json", cfg.InventoryPath())
	assert.Equal(t, "/tmp/sales.json", cfg.SalesPath())
	assert.Equal(t, "stderr", cfg.LogPath())

	cfg.Log.File = "ops.log"
	assert.Equal(t, "/var/lib/stock/ops.log", cfg.LogPath())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("STOCK_DATA_DIR", "/srv/stock")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/stock", cfg.DataDir)
	assert.Equal(t, "inventory.json", cfg.InventoryFile)
	assert.Equal(t, "sales.json", cfg.SalesFile)
	assert.Equal(t, "info", cfg.Log.Level)
}
