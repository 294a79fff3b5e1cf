package sales

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/product"
)

// ErrPersistence is matched by *PersistError.
var ErrPersistence = errors.New("persist sales")

// PersistError wraps a failure to write the ledger. It matches both
// ErrPersistence and product.ErrInvalidData.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to save sales: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence or product.ErrInvalidData.
func (e *PersistError) Is(target error) bool {
	return target == ErrPersistence || target == product.ErrInvalidData
}

// Inventory is the part of the inventory store a Ledger sells through.
type Inventory interface {
	Get(id string) (product.Product, bool)
	Sell(ctx context.Context, id string, qty int) (decimal.Decimal, error)
}

// Repository loads and stores the full ledger.
type Repository interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for sale records.
func WithLogger(lg *zap.Logger) Option {
	return func(l *Ledger) { l.lg = lg }
}

// WithClock overrides the time source used for sale timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger records completed sales against an inventory. It never owns the
// products it sells.
type Ledger struct {
	inv     Inventory
	repo    Repository
	lg      *zap.Logger
	now     func() time.Time
	records []Record
}

// New creates a Ledger and loads its history from repo. A load failure is
// returned as an error matching product.ErrInvalidData.
func New(ctx context.Context, inv Inventory, repo Repository, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		inv:  inv,
		repo: repo,
		lg:   zap.NewNop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(l)
	}

	records, err := repo.Load(ctx)
	if err != nil {
		l.lg.Error("Failed to load sales", zap.Error(err))
		if errors.Is(err, product.ErrInvalidData) {
			return nil, errors.Wrap(err, "load sales")
		}
		return nil, fmt.Errorf("%w: load sales: %w", product.ErrInvalidData, err)
	}
	l.records = records
	l.lg.Info("Sales history loaded", zap.Int("records", len(records)))
	return l, nil
}

// ProcessSale sells qty units of a product, appends a sale record and
// rewrites the ledger. The inventory write and the ledger write are two
// independent steps: a ledger failure leaves the stock already reduced.
func (l *Ledger) ProcessSale(ctx context.Context, productID string, qty int) (decimal.Decimal, error) {
	p, _ := l.inv.Get(productID)

	total, err := l.inv.Sell(ctx, productID, qty)
	if err != nil {
		return decimal.Zero, err
	}

	rec := Record{
		SaleID:      nextSaleID(len(l.records)),
		ProductID:   productID,
		ProductName: p.Name,
		Quantity:    qty,
		TotalPrice:  total,
		Timestamp:   l.now(),
	}
	l.records = append(l.records, rec)

	if err := l.repo.Save(ctx, l.History()); err != nil {
		l.lg.Error("Failed to save sales", zap.String("sale_id", rec.SaleID), zap.Error(err))
		return decimal.Zero, &PersistError{Err: err}
	}

	l.lg.Info("Sale processed",
		zap.String("sale_id", rec.SaleID),
		zap.String("product_id", productID),
		zap.String("name", rec.ProductName),
		zap.Int("quantity", qty),
		zap.String("total", total.StringFixed(2)),
	)
	return total, nil
}

// History returns the sale records in the order they were made.
func (l *Ledger) History() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Revenue returns the sum of all recorded sale totals.
func (l *Ledger) Revenue() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range l.records {
		sum = sum.Add(r.TotalPrice)
	}
	return sum
}

func nextSaleID(count int) string {
	return "SALE_" + strconv.Itoa(count+1)
}
