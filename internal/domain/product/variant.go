package product

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Kind is the type discriminator stored with every persisted product.
type Kind string

const (
	// KindElectronic tags Electronic products.
	KindElectronic Kind = "ElectronicProduct"
	// KindClothing tags Clothing products.
	KindClothing Kind = "ClothingProduct"
	// KindGrocery tags Grocery products.
	KindGrocery Kind = "GroceryProduct"
)

// Kinds lists every known discriminator.
var Kinds = []Kind{KindElectronic, KindClothing, KindGrocery}

// ParseKind accepts either a discriminator ("GroceryProduct") or the short
// category name ("grocery"), ignoring case.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		short := strings.TrimSuffix(string(k), "Product")
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, short) {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidData, "unknown product type %q", s)
}

// Variant is the closed set of category-specific attributes:
// Electronic, Clothing and Grocery.
type Variant interface {
	Kind() Kind
	attributes(now time.Time) []Attribute
}

// Electronic holds attributes of consumer electronics.
type Electronic struct {
	WarrantyYears int
	Brand         string
}

// Kind implements Variant.
func (Electronic) Kind() Kind { return KindElectronic }

func (v Electronic) attributes(time.Time) []Attribute {
	return []Attribute{
		{Key: "warranty_years", Value: strconv.Itoa(v.WarrantyYears)},
		{Key: "brand", Value: v.Brand},
	}
}

// Size is a garment size. Values outside the well-known set are kept as is.
type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// Clothing holds attributes of apparel.
type Clothing struct {
	Size     Size
	Material string
}

// Kind implements Variant.
func (Clothing) Kind() Kind { return KindClothing }

func (v Clothing) attributes(time.Time) []Attribute {
	return []Attribute{
		{Key: "size", Value: string(v.Size)},
		{Key: "material", Value: v.Material},
	}
}

// Grocery holds attributes of perishable goods. ExpiryDate is a calendar
// date at UTC midnight.
type Grocery struct {
	ExpiryDate time.Time
}

// NewGrocery parses an ISO 8601 calendar date ("YYYY-MM-DD").
func NewGrocery(expiry string) (Grocery, error) {
	t, err := time.Parse(time.DateOnly, expiry)
	if err != nil {
		return Grocery{}, errors.Wrapf(ErrInvalidData, "invalid expiry date %q, use YYYY-MM-DD", expiry)
	}
	return Grocery{ExpiryDate: t}, nil
}

// Kind implements Variant.
func (Grocery) Kind() Kind { return KindGrocery }

// Expired reports whether the calendar date of now is after the expiry date.
func (v Grocery) Expired(now time.Time) bool {
	y, m, d := now.Date()
	ey, em, ed := v.ExpiryDate.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return today.After(time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC))
}

func (v Grocery) attributes(now time.Time) []Attribute {
	return []Attribute{
		{Key: "expiry_date", Value: v.ExpiryDate.Format(time.DateOnly)},
		{Key: "is_expired", Value: strconv.FormatBool(v.Expired(now))},
	}
}
