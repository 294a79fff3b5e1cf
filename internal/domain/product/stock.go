package product

import (
	"math"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Restock increases the quantity on hand by amount.
func (p *Product) Restock(amount int) error {
	if amount < 0 {
		return errors.Wrapf(ErrInvalidAmount, "restock %d units of %q", amount, p.ID)
	}
	if amount > math.MaxInt-p.Quantity {
		return errors.Wrapf(ErrInvalidAmount, "restock %d units of %q overflows stock of %d", amount, p.ID, p.Quantity)
	}
	p.Quantity += amount
	return nil
}

// Sell decreases the quantity on hand by qty. The quantity is left
// untouched when the sale cannot be fulfilled.
func (p *Product) Sell(qty int) error {
	if qty < 0 {
		return errors.Wrapf(ErrInvalidAmount, "sell %d units of %q", qty, p.ID)
	}
	if qty > p.Quantity {
		return &InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: qty,
			Available: p.Quantity,
		}
	}
	p.Quantity -= qty
	return nil
}

// SetQuantity replaces the quantity on hand.
func (p *Product) SetQuantity(qty int) error {
	if qty < 0 {
		return errors.Wrapf(ErrInvalidAmount, "set stock of %q to %d", p.ID, qty)
	}
	p.Quantity = qty
	return nil
}

// TotalValue returns price * quantity.
func (p *Product) TotalValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Expired reports whether p is a grocery past its expiry date. Products of
// other categories never expire.
func (p *Product) Expired(now time.Time) bool {
	g, ok := p.Variant.(Grocery)
	return ok && g.Expired(now)
}
