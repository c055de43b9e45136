package ports

import (
	"context"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for catalog products.
type ProductRepository interface {
	// Add persists a new product to storage.
	Add(ctx context.Context, aggregate *product.Product) error

	// Update persists changes to an existing product.
	Update(ctx context.Context, aggregate *product.Product) error

	// Get retrieves a product by its unique identifier.
	// Within a transaction the row is locked until commit so concurrent
	// checkouts serialize on stock checks.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)
}
