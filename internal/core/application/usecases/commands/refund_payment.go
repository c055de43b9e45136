package commands

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/pkg/guard"
)

// ErrRefundPaymentCommandIsNotConstructed is returned when the command was
// not created via NewRefundPaymentCommand.
var ErrRefundPaymentCommandIsNotConstructed = errors.New(
	"RefundPaymentCommand must be created via NewRefundPaymentCommand constructor",
)

// RefundPaymentCommand represents returning collected money to the customer.
// A nil amount means a full refund of whatever remains refundable.
type RefundPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID   kernel.UUID
	amount      *decimal.Decimal
	reason      string
	requestedBy *kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefundPaymentCommand creates a refund command. Amount bounds are
// enforced by the payment aggregate against its refundable remainder.
func NewRefundPaymentCommand(
	paymentID kernel.UUID, amount *decimal.Decimal, reason string, requestedBy *kernel.UUID,
) (RefundPaymentCommand, error) {
	if err := paymentID.Validate(); err != nil {
		return RefundPaymentCommand{}, err
	}

	return RefundPaymentCommand{
		paymentID:   paymentID,
		amount:      amount,
		reason:      reason,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RefundPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRefundPaymentCommandIsNotConstructed)
}

// PaymentID returns the payment to refund.
func (c RefundPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

// Amount returns the requested amount, or nil for a full refund.
func (c RefundPaymentCommand) Amount() *decimal.Decimal {
	return c.amount
}

// Reason returns the free-text refund reason.
func (c RefundPaymentCommand) Reason() string {
	return c.reason
}

// RequestedBy returns who requested the refund, or nil.
func (c RefundPaymentCommand) RequestedBy() *kernel.UUID {
	return c.requestedBy
}

// RefundPaymentCommandHandler refunds a collected payment, fully or
// partially, and returns the created refund record.
type RefundPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
}

// NewRefundPaymentCommandHandler creates a handler for refunds.
func NewRefundPaymentCommandHandler(uowFactory PaymentUoWFactory) RefundPaymentCommandHandler {
	return RefundPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the refund command.
func (h RefundPaymentCommandHandler) Handle(
	ctx context.Context, cmd RefundPaymentCommand,
) (*payment.Refund, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	refunded, err := paymentRepo.Get(ctx, cmd.PaymentID())
	if err != nil {
		return nil, err
	}

	refund, err := refunded.Refund(cmd.Amount(), cmd.Reason(), cmd.RequestedBy())
	if err != nil {
		return nil, err
	}

	if err = paymentRepo.Update(ctx, refunded); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return refund, nil
}
