package product

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	variants := []Variant{
		Electronic{WarrantyYears: 2, Brand: "Apple"},
		Clothing{Size: SizeXL, Material: "Wool"},
		mustGrocery(t, "2030-12-31"),
	}

	for _, v := range variants {
		t.Run(string(v.Kind()), func(t *testing.T) {
			in, err := New("id-"+string(v.Kind()), "Item", d("12.50"), 7, v)
			require.NoError(t, err)

			data, err := in.MarshalJSON()
			require.NoError(t, err)

			var out Product
			require.NoError(t, out.UnmarshalJSON(data))

			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.Name, out.Name)
			assert.True(t, in.Price.Equal(out.Price), "price %s != %s", in.Price, out.Price)
			assert.Equal(t, in.Quantity, out.Quantity)
			assert.Equal(t, in.Variant, out.Variant)
			assert.Equal(t, in.Kind(), out.Kind())
		})
	}
}

func TestEncode_Fields(t *testing.T) {
	p, err := New("g1", "Milk", d("2.99"), 10, mustGrocery(t, "2025-01-31"))
	require.NoError(t, err)

	data, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"product_id": "g1",
		"name": "Milk",
		"price": 2.99,
		"quantity": 10,
		"type": "GroceryProduct",
		"expiry_date": "2025-01-31"
	}`, string(data))
}

func TestDecode_FieldOrderAndLegacyValues(t *testing.T) {
	// Type tag last, price as a string, unknown fields ignored.
	input := `{"brand":"Sony","warranty_years":1,"price":"49.99","quantity":2,
		"name":"Earphones","product_id":"c2","color":"black","type":"ElectronicProduct"}`

	var p Product
	require.NoError(t, p.Decode(jx.DecodeStr(input)))
	assert.Equal(t, Electronic{WarrantyYears: 1, Brand: "Sony"}, p.Variant)
	assert.True(t, d("49.99").Equal(p.Price))
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "unknown type",
			input: `{"product_id":"x","name":"X","price":1,"quantity":1,"type":"FurnitureProduct"}`,
		},
		{
			name:  "missing type",
			input: `{"product_id":"x","name":"X","price":1,"quantity":1}`,
		},
		{
			name:  "missing variant field",
			input: `{"product_id":"x","name":"X","price":1,"quantity":1,"type":"ClothingProduct","size":"M"}`,
		},
		{
			name:  "bad expiry date",
			input: `{"product_id":"x","name":"X","price":1,"quantity":1,"type":"GroceryProduct","expiry_date":"tomorrow"}`,
		},
		{
			name:  "quantity not a number",
			input: `{"product_id":"x","name":"X","price":1,"quantity":"many","type":"GroceryProduct","expiry_date":"2025-01-01"}`,
		},
		{
			name:  "negative quantity",
			input: `{"product_id":"x","name":"X","price":1,"quantity":-3,"type":"GroceryProduct","expiry_date":"2025-01-01"}`,
		},
		{
			name:  "not an object",
			input: `[1, 2, 3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			err := p.UnmarshalJSON([]byte(tt.input))
			require.ErrorIs(t, err, ErrInvalidData)
		})
	}
}
