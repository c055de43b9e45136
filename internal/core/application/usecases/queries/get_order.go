// Package queries contains read-side operations in the CQRS architecture.
// Query handlers read straight from the database with raw SQL, bypassing the
// aggregates and their repositories.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"
	"quickgo/internal/pkg/guard"
)

// ErrGetOrderQueryIsNotConstructed is returned when the query was not created
// via NewGetOrderQuery.
var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its lines and status history.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order's detail view.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the order detail view.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	OrderNumber           string
	Status                string
	PaymentMethod         string
	DeliveryAddress       string
	SpecialInstructions   string
	Subtotal              decimal.Decimal
	DeliveryFee           decimal.Decimal
	ServiceFee            decimal.Decimal
	Tax                   decimal.Decimal
	Tip                   decimal.Decimal
	Discount              decimal.Decimal
	Total                 decimal.Decimal
	IsPaid                bool
	TransactionID         string
	CancellationReason    string
	CancellationNotes     string
	EstimatedDeliveryTime *time.Time
	CreatedAt             time.Time
	Lines                 []GetOrderQueryLine
	History               []GetOrderQueryStatusChange
}

// GetOrderQueryLine is one purchased item in the detail view.
type GetOrderQueryLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
	Notes     string
}

// GetOrderQueryStatusChange is one history record in the detail view.
type GetOrderQueryStatusChange struct {
	Status    string
	Notes     string
	CreatedAt time.Time
}

// GetOrderQueryHandler reads the order detail view from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when no order
// with the requested id exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			payment_method,
			delivery_address,
			special_instructions,
			subtotal,
			delivery_fee,
			service_fee,
			tax,
			tip,
			discount,
			total,
			is_paid,
			transaction_id,
			cancellation_reason,
			cancellation_notes,
			estimated_delivery_time,
			created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var id string
	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&resp.Status,
		&resp.PaymentMethod,
		&resp.DeliveryAddress,
		&resp.SpecialInstructions,
		&resp.Subtotal,
		&resp.DeliveryFee,
		&resp.ServiceFee,
		&resp.Tax,
		&resp.Tip,
		&resp.Discount,
		&resp.Total,
		&resp.IsPaid,
		&resp.TransactionID,
		&resp.CancellationReason,
		&resp.CancellationNotes,
		&resp.EstimatedDeliveryTime,
		&resp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundErrorWithCause("orderID", query.OrderID(), err)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = orderID

	if resp.Lines, err = h.lines(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.History, err = h.history(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) lines(ctx context.Context, orderID kernel.UUID) ([]GetOrderQueryLine, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			name,
			unit_price,
			quantity,
			subtotal,
			notes
		FROM order_lines
		WHERE order_id = ?
		ORDER BY created_at
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]GetOrderQueryLine, 0)
	for rows.Next() {
		var line GetOrderQueryLine
		if err = rows.Scan(&line.Name, &line.UnitPrice, &line.Quantity, &line.Subtotal, &line.Notes); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (h GetOrderQueryHandler) history(
	ctx context.Context, orderID kernel.UUID,
) ([]GetOrderQueryStatusChange, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			notes,
			created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]GetOrderQueryStatusChange, 0)
	for rows.Next() {
		var change GetOrderQueryStatusChange
		if err = rows.Scan(&change.Status, &change.Notes, &change.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, change)
	}

	return history, rows.Err()
}
