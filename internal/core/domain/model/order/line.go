package order

import (
	"errors"
	"fmt"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrLineIsNotConstructed is returned when a Line instance was not created
// through NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Option is one product customization chosen by the customer, frozen as a
// snapshot at checkout. PriceDelta adjusts the unit price and may be negative.
type Option struct {
	ID         string
	Name       string
	PriceDelta decimal.Decimal
}

// Extra is an add-on item attached to a line, frozen as a snapshot at
// checkout. Its price is multiplied by its own quantity.
type Extra struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// LineSpec carries the catalog snapshot for one order line. The snapshot is
// validated against the catalog at order creation and then frozen, so later
// catalog changes never affect placed orders.
type LineSpec struct {
	ProductID      kernel.UUID
	Name           string
	Description    string
	ImageURL       string
	UnitPrice      decimal.Decimal
	Quantity       int
	Options        []Option
	Extras         []Extra
	Notes          string
	TrackInventory bool
}

// Line is one purchased item of an order. It is owned exclusively by its
// Order and is immutable after checkout.
type Line struct {
	id             kernel.UUID
	productID      kernel.UUID
	name           string
	description    string
	imageURL       string
	unitPrice      decimal.Decimal
	quantity       int
	options        []Option
	extras         []Extra
	notes          string
	trackInventory bool

	isConstructed bool
}

// NewLine creates a new order line from a catalog snapshot.
// The product reference must be valid, the name non-empty, the unit price
// non-negative, and all quantities at least 1.
func NewLine(spec LineSpec) (*Line, error) {
	if err := errors.Join(
		spec.ProductID.Validate(),
		validateLineSpec(spec),
	); err != nil {
		return nil, err
	}

	return &Line{
		id:             kernel.NewUUID(),
		productID:      spec.ProductID,
		name:           spec.Name,
		description:    spec.Description,
		imageURL:       spec.ImageURL,
		unitPrice:      spec.UnitPrice,
		quantity:       spec.Quantity,
		options:        spec.Options,
		extras:         spec.Extras,
		notes:          spec.Notes,
		trackInventory: spec.TrackInventory,
		isConstructed:  true,
	}, nil
}

// RestoreLine reconstructs a line from persistence without re-validating the
// snapshot. It must only be called by repositories.
func RestoreLine(id kernel.UUID, spec LineSpec) *Line {
	return &Line{
		id:             id,
		productID:      spec.ProductID,
		name:           spec.Name,
		description:    spec.Description,
		imageURL:       spec.ImageURL,
		unitPrice:      spec.UnitPrice,
		quantity:       spec.Quantity,
		options:        spec.Options,
		extras:         spec.Extras,
		notes:          spec.Notes,
		trackInventory: spec.TrackInventory,
		isConstructed:  true,
	}
}

// Validate ensures the Line was created through a constructor.
func (l *Line) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLineIsNotConstructed
	}
	return nil
}

// ID returns the line's unique identifier.
func (l *Line) ID() kernel.UUID {
	return l.id
}

// ProductID returns the catalog product this line was created from.
func (l *Line) ProductID() kernel.UUID {
	return l.productID
}

// Name returns the product name snapshot.
func (l *Line) Name() string {
	return l.name
}

// Description returns the product description snapshot.
func (l *Line) Description() string {
	return l.description
}

// ImageURL returns the product image snapshot.
func (l *Line) ImageURL() string {
	return l.imageURL
}

// UnitPrice returns the product price snapshot.
func (l *Line) UnitPrice() decimal.Decimal {
	return l.unitPrice
}

// Quantity returns how many units were purchased.
func (l *Line) Quantity() int {
	return l.quantity
}

// Options returns the chosen customizations.
func (l *Line) Options() []Option {
	return l.options
}

// Extras returns the chosen add-ons.
func (l *Line) Extras() []Extra {
	return l.extras
}

// Notes returns the customer's free-text instructions for this line.
func (l *Line) Notes() string {
	return l.notes
}

// TracksInventory reports whether the product tracked stock at checkout.
// Cancelling the order restores stock for tracked lines only.
func (l *Line) TracksInventory() bool {
	return l.trackInventory
}

// Subtotal computes the line total:
// (unit price + option deltas + extra prices x extra quantities) x quantity.
func (l *Line) Subtotal() decimal.Decimal {
	unit := l.unitPrice
	for _, option := range l.options {
		unit = unit.Add(option.PriceDelta)
	}
	for _, extra := range l.extras {
		unit = unit.Add(extra.Price.Mul(decimal.NewFromInt(int64(extra.Quantity))))
	}
	return unit.Mul(decimal.NewFromInt(int64(l.quantity)))
}

func validateLineSpec(spec LineSpec) error {
	if spec.Name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if spec.UnitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(
			"unitPrice", fmt.Errorf("%s is negative", spec.UnitPrice))
	}
	if spec.Quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", spec.Quantity))
	}
	for _, extra := range spec.Extras {
		if extra.Quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause(
				"extraQuantity", fmt.Errorf("%d is not greater than 0", extra.Quantity))
		}
		if extra.Price.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause(
				"extraPrice", fmt.Errorf("%s is negative", extra.Price))
		}
	}
	return nil
}
