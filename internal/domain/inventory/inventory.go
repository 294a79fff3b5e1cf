// Package inventory keeps the set of stocked products and rewrites its
// backing store after every mutation.
package inventory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/product"
)

var (
	// ErrDuplicate is matched by *DuplicateError.
	ErrDuplicate = errors.New("product already exists")
	// ErrNotFound is matched by *NotFoundError.
	ErrNotFound = errors.New("product not found")
	// ErrPersistence is matched by *PersistError.
	ErrPersistence = errors.New("persist inventory")
)

// DuplicateError indicates an attempt to add a product whose id is taken.
type DuplicateError struct {
	ProductID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("product with id %s already exists", e.ProductID)
}

// Is reports whether target is ErrDuplicate.
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError indicates an operation on an id that is not stocked.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ProductID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistError wraps a failure to write the backing store. It matches both
// ErrPersistence and product.ErrInvalidData. The in-memory change that
// triggered the write is kept.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to save inventory: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence or product.ErrInvalidData.
func (e *PersistError) Is(target error) bool {
	return target == ErrPersistence || target == product.ErrInvalidData
}

// Repository loads and stores the full product set.
type Repository interface {
	Load(ctx context.Context) ([]product.Product, error)
	Save(ctx context.Context, products []product.Product) error
}

// Option configures an Inventory.
type Option func(*Inventory)

// WithLogger sets the logger used for operation records.
func WithLogger(lg *zap.Logger) Option {
	return func(i *Inventory) { i.lg = lg }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Inventory) { i.now = now }
}

// Inventory maps product ids to products. Iteration follows insertion order.
// It is not safe for concurrent use.
type Inventory struct {
	repo  Repository
	lg    *zap.Logger
	now   func() time.Time
	byID  map[string]*product.Product
	order []string
}

// New creates an Inventory and loads its contents from repo. A load failure
// is returned as an error matching product.ErrInvalidData.
func New(ctx context.Context, repo Repository, opts ...Option) (*Inventory, error) {
	inv := &Inventory{
		repo: repo,
		lg:   zap.NewNop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(inv)
	}
	if err := inv.load(ctx); err != nil {
		return nil, err
	}
	return inv, nil
}

func (i *Inventory) load(ctx context.Context) error {
	products, err := i.repo.Load(ctx)
	if err != nil {
		i.lg.Error("Failed to load inventory", zap.Error(err))
		if errors.Is(err, product.ErrInvalidData) {
			return errors.Wrap(err, "load inventory")
		}
		return fmt.Errorf("%w: load inventory: %w", product.ErrInvalidData, err)
	}

	byID := make(map[string]*product.Product, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := byID[p.ID]; ok {
			return errors.Wrapf(product.ErrInvalidData, "load inventory: duplicate product id %q", p.ID)
		}
		byID[p.ID] = &p
		order = append(order, p.ID)
	}
	i.byID = byID
	i.order = order

	i.lg.Info("Inventory loaded", zap.Int("products", len(order)))
	return nil
}

// Reload replaces the in-memory products with the contents of the backing
// store. On failure the current contents are kept.
func (i *Inventory) Reload(ctx context.Context) error {
	return i.load(ctx)
}

// Save writes every product to the backing store.
func (i *Inventory) Save(ctx context.Context) error {
	products := i.List()
	if err := i.repo.Save(ctx, products); err != nil {
		i.lg.Error("Failed to save inventory", zap.Error(err))
		return &PersistError{Err: err}
	}
	return nil
}

// Add stores p under its id.
func (i *Inventory) Add(ctx context.Context, p *product.Product) error {
	if p == nil {
		return errors.Wrap(product.ErrInvalidData, "nil product")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, ok := i.byID[p.ID]; ok {
		return &DuplicateError{ProductID: p.ID}
	}
	stored := *p
	i.byID[p.ID] = &stored
	i.order = append(i.order, p.ID)

	if err := i.Save(ctx); err != nil {
		return err
	}
	i.lg.Info("Added product",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.String("type", string(p.Kind())),
	)
	return nil
}

// Remove deletes the product with the given id.
func (i *Inventory) Remove(ctx context.Context, id string) error {
	p, ok := i.byID[id]
	if !ok {
		return &NotFoundError{ProductID: id}
	}
	delete(i.byID, id)
	i.order = slices.DeleteFunc(i.order, func(v string) bool { return v == id })

	if err := i.Save(ctx); err != nil {
		return err
	}
	i.lg.Info("Removed product", zap.String("product_id", id), zap.String("name", p.Name))
	return nil
}

// Get returns a copy of the product with the given id.
func (i *Inventory) Get(id string) (product.Product, bool) {
	p, ok := i.byID[id]
	if !ok {
		return product.Product{}, false
	}
	return *p, true
}

// Sell removes qty units of the product from stock and returns price * qty.
func (i *Inventory) Sell(ctx context.Context, id string, qty int) (decimal.Decimal, error) {
	p, ok := i.byID[id]
	if !ok {
		return decimal.Zero, &NotFoundError{ProductID: id}
	}
	if err := p.Sell(qty); err != nil {
		return decimal.Zero, err
	}
	if err := i.Save(ctx); err != nil {
		return decimal.Zero, err
	}

	total := p.Price.Mul(decimal.NewFromInt(int64(qty)))
	i.lg.Info("Sold product",
		zap.String("product_id", id),
		zap.String("name", p.Name),
		zap.Int("quantity", qty),
		zap.Stringer("total", total),
	)
	return total, nil
}

// Restock adds qty units of the product to stock.
func (i *Inventory) Restock(ctx context.Context, id string, qty int) error {
	p, ok := i.byID[id]
	if !ok {
		return &NotFoundError{ProductID: id}
	}
	if err := p.Restock(qty); err != nil {
		return err
	}
	if err := i.Save(ctx); err != nil {
		return err
	}
	i.lg.Info("Restocked product",
		zap.String("product_id", id),
		zap.String("name", p.Name),
		zap.Int("quantity", qty),
	)
	return nil
}

// SetQuantity sets the stock level of the product to qty.
func (i *Inventory) SetQuantity(ctx context.Context, id string, qty int) error {
	p, ok := i.byID[id]
	if !ok {
		return &NotFoundError{ProductID: id}
	}
	prev := p.Quantity
	if err := p.SetQuantity(qty); err != nil {
		return err
	}
	if err := i.Save(ctx); err != nil {
		return err
	}
	i.lg.Info("Updated stock",
		zap.String("product_id", id),
		zap.Int("from", prev),
		zap.Int("to", qty),
	)
	return nil
}

// List returns copies of all products.
func (i *Inventory) List() []product.Product {
	return i.filter(func(*product.Product) bool { return true })
}

// Details returns the detail records of all products.
func (i *Inventory) Details() []product.Details {
	now := i.now()
	details := make([]product.Details, 0, len(i.order))
	for _, id := range i.order {
		details = append(details, i.byID[id].Describe(now))
	}
	return details
}

// SearchByName returns products whose name contains substr, ignoring case.
func (i *Inventory) SearchByName(substr string) []product.Product {
	needle := strings.ToLower(substr)
	return i.filter(func(p *product.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
}

// SearchByType returns products of the given kind.
func (i *Inventory) SearchByType(kind product.Kind) []product.Product {
	return i.filter(func(p *product.Product) bool {
		return p.Kind() == kind
	})
}

// TotalValue returns the sum of price * quantity over all products.
func (i *Inventory) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, id := range i.order {
		total = total.Add(i.byID[id].TotalValue())
	}
	return total
}

// RemoveExpired removes every expired grocery, persisting after each
// removal, and returns the removed ids.
func (i *Inventory) RemoveExpired(ctx context.Context) ([]string, error) {
	now := i.now()
	var expired []string
	for _, id := range i.order {
		if i.byID[id].Expired(now) {
			expired = append(expired, id)
		}
	}

	removed := make([]string, 0, len(expired))
	for _, id := range expired {
		if err := i.Remove(ctx, id); err != nil {
			return removed, err
		}
		removed = append(removed, id)
	}
	if len(removed) > 0 {
		i.lg.Info("Removed expired products", zap.Strings("product_ids", removed))
	}
	return removed, nil
}

// Len returns the number of products.
func (i *Inventory) Len() int {
	return len(i.order)
}

func (i *Inventory) filter(keep func(*product.Product) bool) []product.Product {
	out := make([]product.Product, 0, len(i.order))
	for _, id := range i.order {
		if p := i.byID[id]; keep(p) {
			out = append(out, *p)
		}
	}
	return out
}
