package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/restaurant"
)

// RestaurantRepository defines the persistence contract for restaurants.
// Statistics counters are incremented in place rather than read-modify-write
// so concurrent deliveries never lose updates.
type RestaurantRepository interface {
	// Add persists a new restaurant to storage.
	Add(ctx context.Context, aggregate *restaurant.Restaurant) error

	// Update persists changes to an existing restaurant.
	Update(ctx context.Context, aggregate *restaurant.Restaurant) error

	// Get retrieves a restaurant by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)

	// IncrementDeliveredStats atomically adds one delivered order and its
	// revenue to the restaurant's lifetime counters.
	IncrementDeliveredStats(ctx context.Context, id kernel.UUID, revenue decimal.Decimal) error
}
