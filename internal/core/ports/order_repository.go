package ports

import (
	"context"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Implementations must persist the order together with its lines and status
// history so the aggregate restores as a single unit.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Within a transaction the row is locked until commit so concurrent
	// transitions on the same order serialize.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its customer-facing order number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)
}
