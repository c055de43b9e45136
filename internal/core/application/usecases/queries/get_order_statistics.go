package queries

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/guard"
)

// ErrGetOrderStatisticsQueryIsNotConstructed is returned when the query was
// not created via NewGetOrderStatisticsQuery.
var ErrGetOrderStatisticsQueryIsNotConstructed = errors.New(
	"GetOrderStatisticsQuery must be created via NewGetOrderStatisticsQuery constructor",
)

// GetOrderStatisticsQuery aggregates marketplace order counters: totals by
// status, delivered revenue, and refunded money.
type GetOrderStatisticsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOrderStatisticsQuery creates a parameterless statistics query.
func NewGetOrderStatisticsQuery() GetOrderStatisticsQuery {
	return GetOrderStatisticsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatisticsQueryIsNotConstructed)
}

// GetOrderStatisticsQueryResponse carries the aggregated counters.
type GetOrderStatisticsQueryResponse struct {
	TotalOrders    int
	CountsByStatus map[string]int
	Revenue        decimal.Decimal
	RefundedAmount decimal.Decimal
}

// GetOrderStatisticsQueryHandler reads the counters from the database.
type GetOrderStatisticsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderStatisticsQueryHandler creates a handler for statistics queries.
func NewGetOrderStatisticsQueryHandler(db *gorm.DB) GetOrderStatisticsQueryHandler {
	return GetOrderStatisticsQueryHandler{db: db}
}

// Handle executes the query. Revenue sums the totals of delivered orders;
// the refunded amount sums across all payments.
func (h GetOrderStatisticsQueryHandler) Handle(
	ctx context.Context, query GetOrderStatisticsQuery,
) (GetOrderStatisticsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatisticsQueryResponse{}, err
	}

	resp := GetOrderStatisticsQueryResponse{
		CountsByStatus: make(map[string]int),
		Revenue:        decimal.Zero,
		RefundedAmount: decimal.Zero,
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*)
		FROM orders
		GROUP BY status
	`).Rows()
	if err != nil {
		return GetOrderStatisticsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return GetOrderStatisticsQueryResponse{}, err
		}
		resp.CountsByStatus[status] = count
		resp.TotalOrders += count
	}
	if err = rows.Err(); err != nil {
		return GetOrderStatisticsQueryResponse{}, err
	}

	err = h.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE status = ?
	`, order.StatusDelivered.String()).Row().Scan(&resp.Revenue)
	if err != nil {
		return GetOrderStatisticsQueryResponse{}, err
	}

	err = h.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(refunded_amount), 0)
		FROM payments
	`).Row().Scan(&resp.RefundedAmount)
	if err != nil {
		return GetOrderStatisticsQueryResponse{}, err
	}

	return resp, nil
}
