package queries

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/guard"
)

// ErrGetDelayedOrdersQueryIsNotConstructed is returned when the query was not
// created via NewGetDelayedOrdersQuery.
var ErrGetDelayedOrdersQueryIsNotConstructed = errors.New(
	"GetDelayedOrdersQuery must be created via NewGetDelayedOrdersQuery constructor",
)

// GetDelayedOrdersQuery retrieves non-terminal orders whose promised delivery
// time has passed. Feeds the delay watchdog.
type GetDelayedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetDelayedOrdersQuery creates a parameterless delayed-orders query.
func NewGetDelayedOrdersQuery() GetDelayedOrdersQuery {
	return GetDelayedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetDelayedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetDelayedOrdersQueryIsNotConstructed)
}

// GetDelayedOrdersQueryResponse is one overdue order.
type GetDelayedOrdersQueryResponse struct {
	ID                    kernel.UUID
	OrderNumber           string
	Status                string
	EstimatedDeliveryTime time.Time
}

// GetDelayedOrdersQueryHandler reads overdue orders from the database.
type GetDelayedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetDelayedOrdersQueryHandler creates a handler for delayed-order queries.
func NewGetDelayedOrdersQueryHandler(db *gorm.DB) GetDelayedOrdersQueryHandler {
	return GetDelayedOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders without an estimate are never delayed.
func (h GetDelayedOrdersQueryHandler) Handle(
	ctx context.Context, query GetDelayedOrdersQuery,
) ([]GetDelayedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			estimated_delivery_time
		FROM orders
		WHERE estimated_delivery_time IS NOT NULL
		  AND estimated_delivery_time < ?
		  AND status NOT IN (?, ?)
		ORDER BY estimated_delivery_time
	`, time.Now().UTC(), order.StatusDelivered.String(), order.StatusCancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	delayed := make([]GetDelayedOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetDelayedOrdersQueryResponse
		var id string
		if err = rows.Scan(&id, &resp.OrderNumber, &resp.Status, &resp.EstimatedDeliveryTime); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromString(id)
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		delayed = append(delayed, resp)
	}

	return delayed, rows.Err()
}
