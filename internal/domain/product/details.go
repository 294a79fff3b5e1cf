package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Attribute is a single category-specific field of a product.
type Attribute struct {
	Key   string
	Value string
}

// Details is a category-tagged view of a product: the shared fields
// followed by the variant fields in a fixed order.
type Details struct {
	Kind       Kind
	ID         string
	Name       string
	Price      decimal.Decimal
	Quantity   int
	Attributes []Attribute
}

// Describe returns the details of p as of now. now only matters for
// groceries, whose is_expired attribute depends on it.
func (p *Product) Describe(now time.Time) Details {
	d := Details{
		Kind:     p.Kind(),
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
	}
	if p.Variant != nil {
		d.Attributes = p.Variant.attributes(now)
	}
	return d
}

// Attribute returns the value of the named variant attribute.
func (d Details) Attribute(key string) (string, bool) {
	for _, a := range d.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (p *Product) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s, Name: %s, Price: $%s, Stock: %d",
		p.ID, p.Name, p.Price.StringFixed(2), p.Quantity)

	switch v := p.Variant.(type) {
	case Electronic:
		fmt.Fprintf(&b, ", Warranty: %d years, Brand: %s", v.WarrantyYears, v.Brand)
	case Clothing:
		fmt.Fprintf(&b, ", Size: %s, Material: %s", v.Size, v.Material)
	case Grocery:
		fmt.Fprintf(&b, ", Expiry: %s, Expired: %t",
			v.ExpiryDate.Format(time.DateOnly), v.Expired(time.Now()))
	}
	return b.String()
}
