package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/sales"
)

func testProducts(t *testing.T) []product.Product {
	t.Helper()
	g, err := product.NewGrocery("2026-03-01")
	require.NoError(t, err)

	variants := map[string]product.Variant{
		"e1": product.Electronic{WarrantyYears: 2, Brand: "Apple"},
		"c1": product.Clothing{Size: product.SizeL, Material: "Linen"},
		"g1": g,
	}
	var out []product.Product
	for _, id := range []string{"e1", "c1", "g1"} {
		p, err := product.New(id, "Item "+id, decimal.RequireFromString("10.25"), 4, variants[id])
		require.NoError(t, err)
		out = append(out, *p)
	}
	return out
}

func TestProductRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventory.json")
	repo := NewProductRepository(path)

	in := testProducts(t)
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.True(t, in[i].Price.Equal(out[i].Price))
		assert.Equal(t, in[i].Quantity, out[i].Quantity)
		assert.Equal(t, in[i].Variant, out[i].Variant)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestProductRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(filepath.Join(t.TempDir(), "inventory.json"))

	require.NoError(t, repo.Save(ctx, testProducts(t)))
	require.NoError(t, repo.Save(ctx, nil))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestProductRepository_MissingFile(t *testing.T) {
	repo := NewProductRepository(filepath.Join(t.TempDir(), "absent.json"))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProductRepository_LegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	legacy := `[
  {
    "product_id": "e1",
    "name": "Smartphone",
    "price": 999.99,
    "quantity": 10,
    "type": "ElectronicProduct",
    "warranty_years": 2,
    "brand": "Apple"
  },
  {
    "product_id": "g1",
    "name": "Milk",
    "price": 2.99,
    "quantity": 10,
    "type": "GroceryProduct",
    "expiry_date": "2000-01-01"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	out, err := NewProductRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, product.KindElectronic, out[0].Kind())
	assert.Equal(t, product.KindGrocery, out[1].Kind())
	assert.True(t, decimal.RequireFromString("999.99").Equal(out[0].Price))
}

func TestProductRepository_Malformed(t *testing.T) {
	for name, content := range map[string]string{
		"empty file":    ``,
		"not an array":  `{"product_id":"e1"}`,
		"truncated":     `[{"product_id":"e1","name":"A"`,
		"trailing data": `[] {"garbage": true`,
		"two arrays":    `[][]`,
		"unknown type":  `[{"product_id":"x","name":"X","price":1,"quantity":1,"type":"Furniture"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "inventory.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := NewProductRepository(path).Load(context.Background())
			require.Error(t, err)
		})
	}

	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"product_id":"x","name":"X","price":1,"quantity":1,"type":"Furniture"}]`), 0o644))
	_, err := NewProductRepository(path).Load(context.Background())
	require.ErrorIs(t, err, product.ErrInvalidData)
}

func TestProductRepository_SaveError(t *testing.T) {
	repo := NewProductRepository(filepath.Join(t.TempDir(), "missing-dir", "inventory.json"))
	err := repo.Save(context.Background(), testProducts(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create temp file")
}

func TestProductRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewProductRepository(filepath.Join(t.TempDir(), "inventory.json"))

	require.ErrorIs(t, repo.Save(ctx, nil), context.Canceled)
	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSaleRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(filepath.Join(t.TempDir(), "sales.json"))
	ts := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	in := []sales.Record{
		{SaleID: "SALE_1", ProductID: "e3", ProductName: "Tablet", Quantity: 2,
			TotalPrice: decimal.RequireFromString("999.98"), Timestamp: ts},
		{SaleID: "SALE_2", ProductID: "g1", ProductName: "Milk", Quantity: 1,
			TotalPrice: decimal.RequireFromString("2.99"), Timestamp: ts.Add(time.Minute)},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].SaleID, out[i].SaleID)
		assert.Equal(t, in[i].ProductName, out[i].ProductName)
		assert.True(t, in[i].TotalPrice.Equal(out[i].TotalPrice))
		assert.True(t, in[i].Timestamp.Equal(out[i].Timestamp))
	}
}

func TestSaleRepository_MissingFile(t *testing.T) {
	out, err := NewSaleRepository(filepath.Join(t.TempDir(), "sales.json")).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}
