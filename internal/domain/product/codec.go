package product

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Encode writes p as a flat JSON object tagged with its type discriminator.
func (p *Product) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("product_id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("quantity")
	e.Int(p.Quantity)
	e.FieldStart("type")
	e.Str(string(p.Kind()))

	switch v := p.Variant.(type) {
	case Electronic:
		e.FieldStart("warranty_years")
		e.Int(v.WarrantyYears)
		e.FieldStart("brand")
		e.Str(v.Brand)
	case Clothing:
		e.FieldStart("size")
		e.Str(string(v.Size))
		e.FieldStart("material")
		e.Str(v.Material)
	case Grocery:
		e.FieldStart("expiry_date")
		e.Str(v.ExpiryDate.Format(time.DateOnly))
	}
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (p *Product) MarshalJSON() ([]byte, error) {
	e := jx.Encoder{}
	p.Encode(&e)
	return e.Bytes(), nil
}

// rawProduct collects decoded fields before the variant is known.
type rawProduct struct {
	id            string
	name          string
	price         decimal.Decimal
	quantity      int
	kind          string
	warrantyYears int
	brand         string
	size          string
	material      string
	expiryDate    string

	seen map[string]bool
}

// Decode reads a tagged product object and reconstructs the variant named
// by its "type" field. Any malformed, missing or unknown field results in
// an error matching ErrInvalidData.
func (p *Product) Decode(d *jx.Decoder) error {
	if p == nil {
		return errors.New("invalid: unable to decode product to nil")
	}
	raw := rawProduct{seen: make(map[string]bool)}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		k := string(key)
		raw.seen[k] = true
		var err error
		switch k {
		case "product_id":
			raw.id, err = d.Str()
		case "name":
			raw.name, err = d.Str()
		case "price":
			raw.price, err = decodeDecimal(d)
		case "quantity":
			raw.quantity, err = d.Int()
		case "type":
			raw.kind, err = d.Str()
		case "warranty_years":
			raw.warrantyYears, err = d.Int()
		case "brand":
			raw.brand, err = d.Str()
		case "size":
			raw.size, err = d.Str()
		case "material":
			raw.material, err = d.Str()
		case "expiry_date":
			raw.expiryDate, err = d.Str()
		default:
			delete(raw.seen, k)
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode field %q", k)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("%w: decode product: %w", ErrInvalidData, err)
	}

	decoded, err := raw.product()
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Product) UnmarshalJSON(data []byte) error {
	return p.Decode(jx.DecodeBytes(data))
}

func (r rawProduct) product() (*Product, error) {
	if err := r.require("product_id", "name", "price", "quantity", "type"); err != nil {
		return nil, err
	}

	var v Variant
	switch Kind(r.kind) {
	case KindElectronic:
		if err := r.require("warranty_years", "brand"); err != nil {
			return nil, err
		}
		v = Electronic{WarrantyYears: r.warrantyYears, Brand: r.brand}
	case KindClothing:
		if err := r.require("size", "material"); err != nil {
			return nil, err
		}
		v = Clothing{Size: Size(r.size), Material: r.material}
	case KindGrocery:
		if err := r.require("expiry_date"); err != nil {
			return nil, err
		}
		g, err := NewGrocery(r.expiryDate)
		if err != nil {
			return nil, err
		}
		v = g
	default:
		return nil, errors.Wrapf(ErrInvalidData, "unknown product type %q", r.kind)
	}

	return New(r.id, r.name, r.price, r.quantity, v)
}

func (r rawProduct) require(fields ...string) error {
	for _, f := range fields {
		if !r.seen[f] {
			return errors.Wrapf(ErrInvalidData, "product %q: missing field %q", r.id, f)
		}
	}
	return nil
}

// decodeDecimal accepts both JSON numbers and numeric strings.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var s string
	switch d.Next() {
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		s = v
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		s = n.String()
	}
	return decimal.NewFromString(s)
}
