package product

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidData is returned when product fields or persisted product
	// data fail validation.
	ErrInvalidData = errors.New("invalid product data")
	// ErrInvalidAmount is returned when a stock adjustment amount is negative.
	ErrInvalidAmount = errors.New("amount must not be negative")
	// ErrInsufficientStock is matched by *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError indicates a sale requested more units than are in stock.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// Is reports whether target is ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Product represents a stocked catalog item. Variant carries the
// category-specific attributes and decides the product's Kind.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Variant  Variant
}

// New validates the shared fields and returns a product of the given variant.
func New(id, name string, price decimal.Decimal, quantity int, v Variant) (*Product, error) {
	p := &Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Variant:  v,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the shared fields against the construction rules.
func (p *Product) Validate() error {
	switch {
	case p.ID == "":
		return errors.Wrap(ErrInvalidData, "product id is required")
	case !p.Price.IsPositive():
		return errors.Wrapf(ErrInvalidData, "price of %q must be positive, got %s", p.ID, p.Price)
	case p.Quantity < 0:
		return errors.Wrapf(ErrInvalidData, "quantity of %q must not be negative, got %d", p.ID, p.Quantity)
	case p.Variant == nil:
		return errors.Wrapf(ErrInvalidData, "product %q has no category", p.ID)
	}
	return nil
}

// Kind returns the variant discriminator of the product.
func (p *Product) Kind() Kind {
	if p.Variant == nil {
		return ""
	}
	return p.Variant.Kind()
}
