package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/user"
)

// CustomerRepository defines the persistence contract for customers.
type CustomerRepository interface {
	// Add persists a new customer to storage.
	Add(ctx context.Context, aggregate *user.Customer) error

	// Update persists changes to an existing customer.
	Update(ctx context.Context, aggregate *user.Customer) error

	// Get retrieves a customer by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*user.Customer, error)

	// IncrementDeliveredStats atomically adds one delivered order and its
	// total to the customer's lifetime counters.
	IncrementDeliveredStats(ctx context.Context, id kernel.UUID, spent decimal.Decimal) error
}
