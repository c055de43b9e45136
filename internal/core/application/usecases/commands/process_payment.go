package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrProcessPaymentCommandIsNotConstructed is returned when the command was
// not created via NewProcessPaymentCommand.
var ErrProcessPaymentCommandIsNotConstructed = errors.New(
	"ProcessPaymentCommand must be created via NewProcessPaymentCommand constructor",
)

// ProcessPaymentCommand represents handing a pending payment to the gateway.
type ProcessPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessPaymentCommand creates a command to start processing a payment.
func NewProcessPaymentCommand(paymentID kernel.UUID) (ProcessPaymentCommand, error) {
	if err := paymentID.Validate(); err != nil {
		return ProcessPaymentCommand{}, err
	}

	return ProcessPaymentCommand{
		paymentID: paymentID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPaymentCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentCommandIsNotConstructed)
}

// PaymentID returns the payment entering processing.
func (c ProcessPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

// ProcessPaymentCommandHandler moves a payment from Pending to Processing.
type ProcessPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
}

// NewProcessPaymentCommandHandler creates a handler for payment processing.
func NewProcessPaymentCommandHandler(uowFactory PaymentUoWFactory) ProcessPaymentCommandHandler {
	return ProcessPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h ProcessPaymentCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) error {
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
	processing, err := paymentRepo.Get(ctx, cmd.PaymentID())
	if err != nil {
		return err
	}

	if err = processing.MarkAsProcessing(); err != nil {
		return err
	}

	if err = paymentRepo.Update(ctx, processing); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
