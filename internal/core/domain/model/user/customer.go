// Package user models the customer and driver directory entries referenced
// by the order lifecycle. Statistics counters on both are incremented
// atomically by the persistence layer inside the transaction that completes
// an order.
package user

import (
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through NewCustomer or RestoreCustomer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is the buyer directory entry. The lifecycle core reads its
// identity and increments its statistics when orders are delivered.
type Customer struct {
	id          kernel.UUID
	name        string
	phone       string
	totalOrders int
	totalSpent  decimal.Decimal

	isConstructed bool
}

// NewCustomer creates a customer directory entry.
func NewCustomer(name string, phone string) (*Customer, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Customer{
		id:            kernel.NewUUID(),
		name:          name,
		phone:         phone,
		totalSpent:    decimal.Zero,
		isConstructed: true,
	}, nil
}

// CustomerSnapshot carries every persisted field of a Customer.
type CustomerSnapshot struct {
	ID          kernel.UUID
	Name        string
	Phone       string
	TotalOrders int
	TotalSpent  decimal.Decimal
}

// RestoreCustomer reconstructs a customer from persistence.
func RestoreCustomer(s CustomerSnapshot) *Customer {
	return &Customer{
		id:            s.ID,
		name:          s.Name,
		phone:         s.Phone,
		totalOrders:   s.TotalOrders,
		totalSpent:    s.TotalSpent,
		isConstructed: true,
	}
}

// Validate ensures the Customer was created through a constructor.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// Name returns the customer's display name.
func (c *Customer) Name() string {
	return c.name
}

// Phone returns the customer's contact number.
func (c *Customer) Phone() string {
	return c.phone
}

// TotalOrders returns the number of delivered orders.
func (c *Customer) TotalOrders() int {
	return c.totalOrders
}

// TotalSpent returns the accumulated total of delivered orders.
func (c *Customer) TotalSpent() decimal.Decimal {
	return c.totalSpent
}
