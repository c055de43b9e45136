package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/user"
)

// DriverRepository defines the persistence contract for drivers.
type DriverRepository interface {
	// Add persists a new driver to storage.
	Add(ctx context.Context, aggregate *user.Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, aggregate *user.Driver) error

	// Get retrieves a driver by its unique identifier.
	// Within a transaction the row is locked until commit so concurrent
	// assignments cannot grab the same driver twice.
	Get(ctx context.Context, id kernel.UUID) (*user.Driver, error)

	// IncrementDeliveredStats atomically adds one completed delivery and its
	// earnings to the driver's lifetime counters.
	IncrementDeliveredStats(ctx context.Context, id kernel.UUID, earnings decimal.Decimal) error

	// SetAvailability flips the driver's availability flag.
	SetAvailability(ctx context.Context, id kernel.UUID, available bool) error
}
