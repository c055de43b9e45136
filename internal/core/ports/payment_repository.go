package ports

import (
	"context"
	"time"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment aggregates.
// Refund records and status history are stored alongside the payment row.
type PaymentRepository interface {
	// Add persists a new payment aggregate to storage.
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Update persists changes to an existing payment aggregate.
	Update(ctx context.Context, aggregate *payment.Payment) error

	// Get retrieves a payment aggregate by its unique identifier.
	// Within a transaction the row is locked until commit.
	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)

	// GetByOrderID retrieves the payment created for the given order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)

	// GetAllStalePending retrieves payments still pending that were created
	// before the cutoff. Used by the stale payment sweep.
	GetAllStalePending(ctx context.Context, cutoff time.Time) ([]*payment.Payment, error)
}
