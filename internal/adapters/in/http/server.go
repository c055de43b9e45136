// Package http exposes the order, delivery, and payment use cases over a
// JSON REST API. Handlers translate requests into commands and queries and
// map domain errors onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/application/usecases/queries"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
}

// Handlers bundles the command and query handlers the server routes to.
type Handlers struct {
	CreateOrder         commands.CreateOrderCommandHandler
	ConfirmOrder        commands.ConfirmOrderCommandHandler
	StartPreparingOrder commands.StartPreparingOrderCommandHandler
	MarkOrderReady      commands.MarkOrderReadyCommandHandler
	CancelOrder         commands.CancelOrderCommandHandler
	RateOrder           commands.RateOrderCommandHandler

	AssignDriver     commands.AssignDriverCommandHandler
	StartPickup      commands.StartPickupCommandHandler
	ConfirmPickup    commands.ConfirmPickupCommandHandler
	StartTransit     commands.StartTransitCommandHandler
	MarkArrived      commands.MarkArrivedCommandHandler
	CompleteDelivery commands.CompleteDeliveryCommandHandler
	FailDelivery     commands.FailDeliveryCommandHandler
	CancelDelivery   commands.CancelDeliveryCommandHandler

	ProcessPayment  commands.ProcessPaymentCommandHandler
	CompletePayment commands.CompletePaymentCommandHandler
	FailPayment     commands.FailPaymentCommandHandler
	CancelPayment   commands.CancelPaymentCommandHandler
	RefundPayment   commands.RefundPaymentCommandHandler

	GetOrder           queries.GetOrderQueryHandler
	GetOrderStatistics queries.GetOrderStatisticsQueryHandler
	GetDelayedOrders   queries.GetDelayedOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts every API route on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/delayed", s.GetDelayedOrders)
	api.GET("/orders/statistics", s.GetOrderStatistics)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.POST("/orders/:id/start-preparing", s.StartPreparingOrder)
	api.POST("/orders/:id/ready", s.MarkOrderReady)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/rate", s.RateOrder)

	api.POST("/deliveries/:id/assign", s.AssignDriver)
	api.POST("/deliveries/:id/start-pickup", s.StartPickup)
	api.POST("/deliveries/:id/confirm-pickup", s.ConfirmPickup)
	api.POST("/deliveries/:id/start-transit", s.StartTransit)
	api.POST("/deliveries/:id/arrived", s.MarkArrived)
	api.POST("/deliveries/:id/complete", s.CompleteDelivery)
	api.POST("/deliveries/:id/fail", s.FailDelivery)
	api.POST("/deliveries/:id/cancel", s.CancelDelivery)

	api.POST("/payments/:id/process", s.ProcessPayment)
	api.POST("/payments/:id/complete", s.CompletePayment)
	api.POST("/payments/:id/fail", s.FailPayment)
	api.POST("/payments/:id/cancel", s.CancelPayment)
	api.POST("/payments/:id/refund", s.RefundPayment)
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain errors onto HTTP status codes. Validation errors
// are the client's fault, transition and precondition errors mean the request
// arrived in the wrong state, everything else is an internal failure whose
// detail stays out of the response.
func respondError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return respondErrorWith(ctx, http.StatusNotFound, err)
	case errors.Is(err, errs.ErrInvalidTransition):
		return respondErrorWith(ctx, http.StatusConflict, err)
	case errors.Is(err, errs.ErrPreconditionFailed):
		return respondErrorWith(ctx, http.StatusUnprocessableEntity, err)
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return respondErrorWith(ctx, http.StatusBadRequest, err)
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
	}
}

func respondErrorWith(ctx echo.Context, code int, err error) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// pathID parses the :id path parameter.
func pathID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// optionalUUID parses an optional UUID field from a request body.
func optionalUUID(value string) (*kernel.UUID, error) {
	if value == "" {
		return nil, nil
	}

	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
