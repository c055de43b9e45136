package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrCompletePaymentCommandIsNotConstructed is returned when the command was
// not created via NewCompletePaymentCommand.
var ErrCompletePaymentCommandIsNotConstructed = errors.New(
	"CompletePaymentCommand must be created via NewCompletePaymentCommand constructor",
)

// CompletePaymentCommand represents the gateway confirming that the money was
// collected.
type CompletePaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompletePaymentCommand creates a command to complete a payment.
func NewCompletePaymentCommand(paymentID kernel.UUID) (CompletePaymentCommand, error) {
	if err := paymentID.Validate(); err != nil {
		return CompletePaymentCommand{}, err
	}

	return CompletePaymentCommand{
		paymentID: paymentID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePaymentCommand) Validate() error {
	return c.guard.Validate(ErrCompletePaymentCommandIsNotConstructed)
}

// PaymentID returns the completing payment.
func (c CompletePaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

// CompletePaymentCommandHandler completes a payment and marks the order paid
// in the same transaction, copying the transaction id and completion time
// onto the order.
type CompletePaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
}

// NewCompletePaymentCommandHandler creates a handler for payment completion.
func NewCompletePaymentCommandHandler(uowFactory PaymentUoWFactory) CompletePaymentCommandHandler {
	return CompletePaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
func (h CompletePaymentCommandHandler) Handle(ctx context.Context, cmd CompletePaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	completed, err := paymentRepo.Get(ctx, cmd.PaymentID())
	if err != nil {
		return err
	}

	if err = completed.MarkAsCompleted(); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	paid, err := orderRepo.Get(ctx, completed.OrderID())
	if err != nil {
		return err
	}

	if err = paid.MarkPaid(completed.TransactionID(), *completed.CompletedAt()); err != nil {
		return err
	}

	if err = paymentRepo.Update(ctx, completed); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, paid); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
