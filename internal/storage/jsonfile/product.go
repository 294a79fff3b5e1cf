package jsonfile

import (
	"context"

	"github.com/go-faster/jx"

	"github.com/xenking/stockroom/internal/domain/inventory"
	"github.com/xenking/stockroom/internal/domain/product"
)

var _ inventory.Repository = (*ProductRepository)(nil)

// ProductRepository implements inventory.Repository backed by a JSON file.
type ProductRepository struct {
	path string
}

// NewProductRepository returns a ProductRepository that uses the file at path.
func NewProductRepository(path string) *ProductRepository {
	return &ProductRepository{path: path}
}

// Path returns the backing file path.
func (r *ProductRepository) Path() string { return r.path }

// Load decodes every product in the backing file. A missing file yields no
// products.
func (r *ProductRepository) Load(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var products []product.Product
	err := readArray(r.path, func(d *jx.Decoder) error {
		var p product.Product
		if err := p.Decode(d); err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Save replaces the backing file with the given products.
func (r *ProductRepository) Save(ctx context.Context, products []product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeArray(r.path, len(products), func(e *jx.Encoder, i int) {
		products[i].Encode(e)
	})
}
