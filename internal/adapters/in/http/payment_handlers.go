package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/domain/model/payment"
)

// ProcessPayment handles POST /api/v1/payments/:id/process.
func (s *Server) ProcessPayment(ctx echo.Context) error {
	paymentID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewProcessPaymentCommand(paymentID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.ProcessPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompletePayment handles POST /api/v1/payments/:id/complete.
func (s *Server) CompletePayment(ctx echo.Context) error {
	paymentID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompletePaymentCommand(paymentID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CompletePayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type failPaymentRequest struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// FailPayment handles POST /api/v1/payments/:id/fail.
func (s *Server) FailPayment(ctx echo.Context) error {
	paymentID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req failPaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewFailPaymentCommand(
		paymentID, payment.FailureReason(req.Reason), req.Message)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.FailPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelPaymentRequest struct {
	Notes string `json:"notes"`
}

// CancelPayment handles POST /api/v1/payments/:id/cancel.
func (s *Server) CancelPayment(ctx echo.Context) error {
	paymentID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req cancelPaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCancelPaymentCommand(paymentID, req.Notes)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CancelPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type refundPaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Reason      string           `json:"reason"`
	RequestedBy string           `json:"requested_by"`
}

type refundResponse struct {
	ID           string          `json:"id"`
	RefundNumber string          `json:"refund_number"`
	PaymentID    string          `json:"payment_id"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RefundPayment handles POST /api/v1/payments/:id/refund. A missing amount
// requests a full refund of the remaining balance.
func (s *Server) RefundPayment(ctx echo.Context) error {
	paymentID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req refundPaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	requestedBy, err := optionalUUID(req.RequestedBy)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRefundPaymentCommand(paymentID, req.Amount, req.Reason, requestedBy)
	if err != nil {
		return respondError(ctx, err)
	}

	refund, err := s.handlers.RefundPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, refundResponse{
		ID:           refund.ID().String(),
		RefundNumber: refund.RefundNumber(),
		PaymentID:    refund.PaymentID().String(),
		Amount:       refund.Amount(),
		Reason:       refund.Reason(),
		Status:       string(refund.Status()),
		CreatedAt:    refund.CreatedAt(),
	})
}
