package jsonfile

import (
	"context"

	"github.com/go-faster/jx"

	"github.com/xenking/stockroom/internal/domain/sales"
)

var _ sales.Repository = (*SaleRepository)(nil)

// SaleRepository implements sales.Repository backed by a JSON file.
type SaleRepository struct {
	path string
}

// NewSaleRepository returns a SaleRepository that uses the file at path.
func NewSaleRepository(path string) *SaleRepository {
	return &SaleRepository{path: path}
}

// Path returns the backing file path.
func (r *SaleRepository) Path() string { return r.path }

// Load decodes the ledger in file order.
func (r *SaleRepository) Load(ctx context.Context) ([]sales.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []sales.Record
	err := readArray(r.path, func(d *jx.Decoder) error {
		var rec sales.Record
		if err := rec.Decode(d); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Save replaces the backing file with the full ledger.
func (r *SaleRepository) Save(ctx context.Context, records []sales.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeArray(r.path, len(records), func(e *jx.Encoder, i int) {
		records[i].Encode(e)
	})
}
