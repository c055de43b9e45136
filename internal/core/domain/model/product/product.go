// Package product models the catalog entry that checkout snapshots into
// order lines. Stock for inventory-tracked products is reduced at checkout
// and restored on cancellation.
package product

import (
	"errors"
	"fmt"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrProductIsNotConstructed is returned when a Product instance was not
// created through NewProduct or RestoreProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a catalog directory entry. Order lines freeze its name, price,
// and inventory-tracking flag at checkout.
type Product struct {
	id             kernel.UUID
	restaurantID   kernel.UUID
	name           string
	description    string
	imageURL       string
	price          decimal.Decimal
	isAvailable    bool
	trackInventory bool
	stockQuantity  int

	isConstructed bool
}

// NewProduct creates a catalog entry. Stock tracking starts disabled; enable
// it with EnableInventoryTracking.
func NewProduct(restaurantID kernel.UUID, name string, price decimal.Decimal) (*Product, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if price.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"price", fmt.Errorf("%s is negative", price))
	}

	return &Product{
		id:            kernel.NewUUID(),
		restaurantID:  restaurantID,
		name:          name,
		price:         price,
		isAvailable:   true,
		isConstructed: true,
	}, nil
}

// Snapshot carries every persisted field of a Product.
type Snapshot struct {
	ID             kernel.UUID
	RestaurantID   kernel.UUID
	Name           string
	Description    string
	ImageURL       string
	Price          decimal.Decimal
	IsAvailable    bool
	TrackInventory bool
	StockQuantity  int
}

// RestoreProduct reconstructs a product from persistence.
func RestoreProduct(s Snapshot) *Product {
	return &Product{
		id:             s.ID,
		restaurantID:   s.RestaurantID,
		name:           s.Name,
		description:    s.Description,
		imageURL:       s.ImageURL,
		price:          s.Price,
		isAvailable:    s.IsAvailable,
		trackInventory: s.TrackInventory,
		stockQuantity:  s.StockQuantity,
		isConstructed:  true,
	}
}

// Validate ensures the Product was created through a constructor.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// RestaurantID returns the owning restaurant.
func (p *Product) RestaurantID() kernel.UUID {
	return p.restaurantID
}

// Name returns the product's display name.
func (p *Product) Name() string {
	return p.name
}

// Description returns the product's description.
func (p *Product) Description() string {
	return p.description
}

// ImageURL returns the product's image.
func (p *Product) ImageURL() string {
	return p.imageURL
}

// Price returns the current catalog price.
func (p *Product) Price() decimal.Decimal {
	return p.price
}

// IsAvailable reports whether the product can currently be ordered.
func (p *Product) IsAvailable() bool {
	return p.isAvailable
}

// TracksInventory reports whether stock is tracked for this product.
func (p *Product) TracksInventory() bool {
	return p.trackInventory
}

// StockQuantity returns the current stock level. Only meaningful when
// inventory tracking is enabled.
func (p *Product) StockQuantity() int {
	return p.stockQuantity
}

// EnableInventoryTracking switches on stock tracking with an initial level.
func (p *Product) EnableInventoryTracking(initialStock int) error {
	if initialStock < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"initialStock", fmt.Errorf("%d is negative", initialStock))
	}
	p.trackInventory = true
	p.stockQuantity = initialStock
	return nil
}

// HasStockFor reports whether an order for the given quantity can be
// fulfilled. Untracked products always have stock.
func (p *Product) HasStockFor(quantity int) bool {
	if !p.trackInventory {
		return true
	}
	return p.stockQuantity >= quantity
}

// ReduceStock decrements stock for a checkout. It is a no-op for untracked
// products and fails when the remaining stock is insufficient.
func (p *Product) ReduceStock(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if !p.trackInventory {
		return nil
	}
	if p.stockQuantity < quantity {
		return errs.NewPreconditionFailedErrorWithCause(
			"insufficient stock",
			fmt.Errorf("%d requested, %d in stock", quantity, p.stockQuantity))
	}

	p.stockQuantity -= quantity
	return nil
}

// IncreaseStock restores stock after a cancellation. It is a no-op for
// untracked products.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if !p.trackInventory {
		return nil
	}

	p.stockQuantity += quantity
	return nil
}
