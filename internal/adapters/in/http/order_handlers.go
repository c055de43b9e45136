package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/application/usecases/queries"
	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
)

type geoPointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lineOptionRequest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

type lineExtraRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type orderLineRequest struct {
	ProductID string              `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Options   []lineOptionRequest `json:"options"`
	Extras    []lineExtraRequest  `json:"extras"`
	Notes     string              `json:"notes"`
}

type createOrderRequest struct {
	CustomerID          string             `json:"customer_id"`
	RestaurantID        string             `json:"restaurant_id"`
	PaymentMethod       string             `json:"payment_method"`
	DeliveryAddress     string             `json:"delivery_address"`
	Dropoff             geoPointRequest    `json:"dropoff"`
	DeliveryFee         decimal.Decimal    `json:"delivery_fee"`
	ServiceFee          decimal.Decimal    `json:"service_fee"`
	Tax                 decimal.Decimal    `json:"tax"`
	Tip                 decimal.Decimal    `json:"tip"`
	Discount            decimal.Decimal    `json:"discount"`
	SpecialInstructions string             `json:"special_instructions"`
	Lines               []orderLineRequest `json:"lines"`
}

type orderResponse struct {
	ID                  string          `json:"id"`
	OrderNumber         string          `json:"order_number"`
	Status              string          `json:"status"`
	PaymentMethod       string          `json:"payment_method"`
	DeliveryAddress     string          `json:"delivery_address"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	ServiceFee          decimal.Decimal `json:"service_fee"`
	Tax                 decimal.Decimal `json:"tax"`
	Tip                 decimal.Decimal `json:"tip"`
	Discount            decimal.Decimal `json:"discount"`
	Total               decimal.Decimal `json:"total"`
	SpecialInstructions string          `json:"special_instructions"`
	CreatedAt           time.Time       `json:"created_at"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}
	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return respondError(ctx, err)
	}
	dropoff, err := kernel.NewGeoPoint(req.Dropoff.Latitude, req.Dropoff.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	lines := make([]commands.CreateOrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		productID, lineErr := kernel.UUIDFromString(l.ProductID)
		if lineErr != nil {
			return respondError(ctx, lineErr)
		}

		options := make([]order.Option, 0, len(l.Options))
		for _, o := range l.Options {
			options = append(options, order.Option{ID: o.ID, Name: o.Name, PriceDelta: o.PriceDelta})
		}
		extras := make([]order.Extra, 0, len(l.Extras))
		for _, e := range l.Extras {
			extras = append(extras, order.Extra{ID: e.ID, Name: e.Name, Price: e.Price, Quantity: e.Quantity})
		}

		lines = append(lines, commands.CreateOrderLine{
			ProductID: productID,
			Quantity:  l.Quantity,
			Options:   options,
			Extras:    extras,
			Notes:     l.Notes,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		customerID,
		restaurantID,
		order.PaymentMethod(req.PaymentMethod),
		req.DeliveryAddress,
		dropoff,
		order.Charges{
			DeliveryFee: req.DeliveryFee,
			ServiceFee:  req.ServiceFee,
			Tax:         req.Tax,
			Tip:         req.Tip,
			Discount:    req.Discount,
		},
		req.SpecialInstructions,
		lines,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderResponse{
		ID:                  created.ID().String(),
		OrderNumber:         created.OrderNumber(),
		Status:              created.Status().String(),
		PaymentMethod:       string(created.PaymentMethod()),
		DeliveryAddress:     created.DeliveryAddress(),
		Subtotal:            created.Subtotal(),
		DeliveryFee:         created.DeliveryFee(),
		ServiceFee:          created.Charges().ServiceFee,
		Tax:                 created.Charges().Tax,
		Tip:                 created.Tip(),
		Discount:            created.Charges().Discount,
		Total:               created.Total(),
		SpecialInstructions: created.SpecialInstructions(),
		CreatedAt:           created.CreatedAt(),
	})
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req actorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := optionalUUID(req.ActorID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, actorID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.ConfirmOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartPreparingOrder handles POST /api/v1/orders/:id/start-preparing.
func (s *Server) StartPreparingOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req actorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := optionalUUID(req.ActorID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewStartPreparingOrderCommand(orderID, actorID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.StartPreparingOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type markOrderReadyRequest struct {
	ActorID  string `json:"actor_id"`
	Priority string `json:"priority"`
}

type deliveryResponse struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// MarkOrderReady handles POST /api/v1/orders/:id/ready. Marking an order
// ready creates its delivery, which is returned in the response.
func (s *Server) MarkOrderReady(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req markOrderReadyRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := optionalUUID(req.ActorID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkOrderReadyCommand(orderID, actorID, delivery.Priority(req.Priority))
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.handlers.MarkOrderReady.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, deliveryResponse{
		ID:          created.ID().String(),
		OrderID:     created.OrderID().String(),
		OrderNumber: created.OrderNumber(),
		Status:      created.Status().String(),
		Priority:    string(created.Priority()),
	})
}

type cancelOrderRequest struct {
	Reason  string `json:"reason"`
	Notes   string `json:"notes"`
	ActorID string `json:"actor_id"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req cancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := optionalUUID(req.ActorID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(
		orderID, order.CancellationReason(req.Reason), req.Notes, actorID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RateOrder handles POST /api/v1/orders/:id/rate.
func (s *Server) RateOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRateOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.RateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type orderDetailLine struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Notes     string          `json:"notes"`
}

type orderDetailStatusChange struct {
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type orderDetailResponse struct {
	ID                    string                    `json:"id"`
	OrderNumber           string                    `json:"order_number"`
	Status                string                    `json:"status"`
	PaymentMethod         string                    `json:"payment_method"`
	DeliveryAddress       string                    `json:"delivery_address"`
	SpecialInstructions   string                    `json:"special_instructions"`
	Subtotal              decimal.Decimal           `json:"subtotal"`
	DeliveryFee           decimal.Decimal           `json:"delivery_fee"`
	ServiceFee            decimal.Decimal           `json:"service_fee"`
	Tax                   decimal.Decimal           `json:"tax"`
	Tip                   decimal.Decimal           `json:"tip"`
	Discount              decimal.Decimal           `json:"discount"`
	Total                 decimal.Decimal           `json:"total"`
	IsPaid                bool                      `json:"is_paid"`
	TransactionID         string                    `json:"transaction_id"`
	CancellationReason    string                    `json:"cancellation_reason"`
	CancellationNotes     string                    `json:"cancellation_notes"`
	EstimatedDeliveryTime *time.Time                `json:"estimated_delivery_time"`
	CreatedAt             time.Time                 `json:"created_at"`
	Lines                 []orderDetailLine         `json:"lines"`
	History               []orderDetailStatusChange `json:"history"`
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	detail, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	lines := make([]orderDetailLine, 0, len(detail.Lines))
	for _, l := range detail.Lines {
		lines = append(lines, orderDetailLine{
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
			Notes:     l.Notes,
		})
	}
	history := make([]orderDetailStatusChange, 0, len(detail.History))
	for _, c := range detail.History {
		history = append(history, orderDetailStatusChange{
			Status:    c.Status,
			Notes:     c.Notes,
			CreatedAt: c.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, orderDetailResponse{
		ID:                    detail.ID.String(),
		OrderNumber:           detail.OrderNumber,
		Status:                detail.Status,
		PaymentMethod:         detail.PaymentMethod,
		DeliveryAddress:       detail.DeliveryAddress,
		SpecialInstructions:   detail.SpecialInstructions,
		Subtotal:              detail.Subtotal,
		DeliveryFee:           detail.DeliveryFee,
		ServiceFee:            detail.ServiceFee,
		Tax:                   detail.Tax,
		Tip:                   detail.Tip,
		Discount:              detail.Discount,
		Total:                 detail.Total,
		IsPaid:                detail.IsPaid,
		TransactionID:         detail.TransactionID,
		CancellationReason:    detail.CancellationReason,
		CancellationNotes:     detail.CancellationNotes,
		EstimatedDeliveryTime: detail.EstimatedDeliveryTime,
		CreatedAt:             detail.CreatedAt,
		Lines:                 lines,
		History:               history,
	})
}

type orderStatisticsResponse struct {
	TotalOrders    int             `json:"total_orders"`
	CountsByStatus map[string]int  `json:"counts_by_status"`
	Revenue        decimal.Decimal `json:"revenue"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
}

// GetOrderStatistics handles GET /api/v1/orders/statistics.
func (s *Server) GetOrderStatistics(ctx echo.Context) error {
	query := queries.NewGetOrderStatisticsQuery()

	stats, err := s.handlers.GetOrderStatistics.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderStatisticsResponse{
		TotalOrders:    stats.TotalOrders,
		CountsByStatus: stats.CountsByStatus,
		Revenue:        stats.Revenue,
		RefundedAmount: stats.RefundedAmount,
	})
}

type delayedOrderResponse struct {
	ID                    string    `json:"id"`
	OrderNumber           string    `json:"order_number"`
	Status                string    `json:"status"`
	EstimatedDeliveryTime time.Time `json:"estimated_delivery_time"`
}

// GetDelayedOrders handles GET /api/v1/orders/delayed.
func (s *Server) GetDelayedOrders(ctx echo.Context) error {
	query := queries.NewGetDelayedOrdersQuery()

	delayed, err := s.handlers.GetDelayedOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]delayedOrderResponse, 0, len(delayed))
	for _, d := range delayed {
		response = append(response, delayedOrderResponse{
			ID:                    d.ID.String(),
			OrderNumber:           d.OrderNumber,
			Status:                d.Status,
			EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}
