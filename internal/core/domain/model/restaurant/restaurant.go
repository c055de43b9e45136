// Package restaurant models the restaurant directory entry consumed by the
// order lifecycle: commission rate for payment distribution, preparation and
// delivery time promises for ETAs, pickup coordinates for deliveries, and
// running statistics updated when orders complete.
package restaurant

import (
	"errors"
	"time"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrRestaurantIsNotConstructed is returned when a Restaurant instance was
// not created through NewRestaurant or RestoreRestaurant.
var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")

const (
	// DefaultCommissionRate is applied when a restaurant has no negotiated rate.
	DefaultCommissionRate = 15

	commissionRateMin = 0
	commissionRateMax = 100
)

// Restaurant is a directory entity. The lifecycle core reads its commission
// rate, time promises, and pickup location, and increments its statistics
// when orders are delivered.
type Restaurant struct {
	id              kernel.UUID
	name            string
	address         string
	location        kernel.GeoPoint
	commissionRate  decimal.Decimal
	preparationTime time.Duration
	maxDeliveryTime time.Duration
	isOpen          bool
	totalOrders     int
	totalRevenue    decimal.Decimal

	isConstructed bool
}

// NewRestaurant creates a restaurant directory entry.
// The commission rate is a percentage and must be within [0, 100].
func NewRestaurant(
	name string,
	address string,
	location kernel.GeoPoint,
	commissionRate decimal.Decimal,
	preparationTime time.Duration,
	maxDeliveryTime time.Duration,
) (*Restaurant, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateCommissionRate(commissionRate); err != nil {
		return nil, err
	}

	return &Restaurant{
		id:              kernel.NewUUID(),
		name:            name,
		address:         address,
		location:        location,
		commissionRate:  commissionRate,
		preparationTime: preparationTime,
		maxDeliveryTime: maxDeliveryTime,
		isOpen:          true,
		totalRevenue:    decimal.Zero,
		isConstructed:   true,
	}, nil
}

// Snapshot carries every persisted field of a Restaurant for reconstruction.
type Snapshot struct {
	ID              kernel.UUID
	Name            string
	Address         string
	Location        kernel.GeoPoint
	CommissionRate  decimal.Decimal
	PreparationTime time.Duration
	MaxDeliveryTime time.Duration
	IsOpen          bool
	TotalOrders     int
	TotalRevenue    decimal.Decimal
}

// RestoreRestaurant reconstructs a restaurant from persistence.
func RestoreRestaurant(s Snapshot) *Restaurant {
	return &Restaurant{
		id:              s.ID,
		name:            s.Name,
		address:         s.Address,
		location:        s.Location,
		commissionRate:  s.CommissionRate,
		preparationTime: s.PreparationTime,
		maxDeliveryTime: s.MaxDeliveryTime,
		isOpen:          s.IsOpen,
		totalOrders:     s.TotalOrders,
		totalRevenue:    s.TotalRevenue,
		isConstructed:   true,
	}
}

// ValidateCommissionRate checks that a commission percentage is within [0, 100].
func ValidateCommissionRate(rate decimal.Decimal) error {
	if rate.LessThan(decimal.NewFromInt(commissionRateMin)) ||
		rate.GreaterThan(decimal.NewFromInt(commissionRateMax)) {
		return errs.NewValueIsOutOfRangeError("commissionRate", rate, commissionRateMin, commissionRateMax)
	}
	return nil
}

// Validate ensures the Restaurant was created through a constructor.
func (r *Restaurant) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRestaurantIsNotConstructed
	}
	return nil
}

// ID returns the restaurant's unique identifier.
func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

// Name returns the restaurant's display name.
func (r *Restaurant) Name() string {
	return r.name
}

// Address returns the pickup address.
func (r *Restaurant) Address() string {
	return r.address
}

// Location returns the pickup coordinates.
func (r *Restaurant) Location() kernel.GeoPoint {
	return r.location
}

// CommissionRate returns the platform commission percentage.
func (r *Restaurant) CommissionRate() decimal.Decimal {
	return r.commissionRate
}

// PreparationTime returns the promised kitchen time.
func (r *Restaurant) PreparationTime() time.Duration {
	return r.preparationTime
}

// MaxDeliveryTime returns the promised maximum delivery window.
func (r *Restaurant) MaxDeliveryTime() time.Duration {
	return r.maxDeliveryTime
}

// IsOpen reports whether the restaurant currently accepts orders.
func (r *Restaurant) IsOpen() bool {
	return r.isOpen
}

// SetOpen toggles whether the restaurant accepts orders.
func (r *Restaurant) SetOpen(open bool) {
	r.isOpen = open
}

// TotalOrders returns the number of delivered orders.
func (r *Restaurant) TotalOrders() int {
	return r.totalOrders
}

// TotalRevenue returns the accumulated revenue from delivered orders.
func (r *Restaurant) TotalRevenue() decimal.Decimal {
	return r.totalRevenue
}
