package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrCancelPaymentCommandIsNotConstructed is returned when the command was
// not created via NewCancelPaymentCommand.
var ErrCancelPaymentCommandIsNotConstructed = errors.New(
	"CancelPaymentCommand must be created via NewCancelPaymentCommand constructor",
)

// CancelPaymentCommand represents abandoning a payment before collection.
type CancelPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID
	notes     string

	guard guard.ConstructorGuard
}

// NewCancelPaymentCommand creates a command to cancel a payment.
func NewCancelPaymentCommand(paymentID kernel.UUID, notes string) (CancelPaymentCommand, error) {
	if err := paymentID.Validate(); err != nil {
		return CancelPaymentCommand{}, err
	}

	return CancelPaymentCommand{
		paymentID: paymentID,
		notes:     notes,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelPaymentCommand) Validate() error {
	return c.guard.Validate(ErrCancelPaymentCommandIsNotConstructed)
}

// PaymentID returns the payment to cancel.
func (c CancelPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

// Notes returns the free-text cancellation notes.
func (c CancelPaymentCommand) Notes() string {
	return c.notes
}

// CancelPaymentCommandHandler cancels a payment that was never collected.
// Collected payments must be refunded instead.
type CancelPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
}

// NewCancelPaymentCommandHandler creates a handler for payment cancellation.
func NewCancelPaymentCommandHandler(uowFactory PaymentUoWFactory) CancelPaymentCommandHandler {
	return CancelPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h CancelPaymentCommandHandler) Handle(ctx context.Context, cmd CancelPaymentCommand) error {
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
	cancelled, err := paymentRepo.Get(ctx, cmd.PaymentID())
	if err != nil {
		return err
	}

	if err = cancelled.Cancel(cmd.Notes()); err != nil {
		return err
	}

	if err = paymentRepo.Update(ctx, cancelled); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
