// Package sales keeps the append-only ledger of completed sales.
package sales

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/product"
)

// Record is a completed sale. ProductName is a snapshot taken at the time
// of sale.
type Record struct {
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
	Timestamp   time.Time
}

// Timestamps written without a zone offset are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Encode writes r as a JSON object.
func (r *Record) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("sale_id")
	e.Str(r.SaleID)
	e.FieldStart("product_id")
	e.Str(r.ProductID)
	e.FieldStart("product_name")
	e.Str(r.ProductName)
	e.FieldStart("quantity")
	e.Int(r.Quantity)
	e.FieldStart("total_price")
	e.Num(jx.Num(r.TotalPrice.String()))
	e.FieldStart("timestamp")
	e.Str(r.Timestamp.Format(time.RFC3339Nano))
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	e := jx.Encoder{}
	r.Encode(&e)
	return e.Bytes(), nil
}

// Decode reads a sale record. Malformed records result in an error
// matching product.ErrInvalidData.
func (r *Record) Decode(d *jx.Decoder) error {
	if r == nil {
		return errors.New("invalid: unable to decode sale record to nil")
	}
	var (
		rec  Record
		seen = make(map[string]bool)
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		k := string(key)
		var err error
		switch k {
		case "sale_id":
			rec.SaleID, err = d.Str()
		case "product_id":
			rec.ProductID, err = d.Str()
		case "product_name":
			rec.ProductName, err = d.Str()
		case "quantity":
			rec.Quantity, err = d.Int()
		case "total_price":
			var n jx.Num
			if n, err = d.Num(); err == nil {
				rec.TotalPrice, err = decimal.NewFromString(n.String())
			}
		case "timestamp":
			var s string
			if s, err = d.Str(); err == nil {
				rec.Timestamp, err = parseTimestamp(s)
			}
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode field %q", k)
		}
		seen[k] = true
		return nil
	}); err != nil {
		return fmt.Errorf("%w: decode sale record: %w", product.ErrInvalidData, err)
	}

	for _, f := range []string{"sale_id", "product_id", "quantity", "total_price", "timestamp"} {
		if !seen[f] {
			return errors.Wrapf(product.ErrInvalidData, "sale record %q: missing field %q", rec.SaleID, f)
		}
	}
	*r = rec
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	return r.Decode(jx.DecodeBytes(data))
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}
