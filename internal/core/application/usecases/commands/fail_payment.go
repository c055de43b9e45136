package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/pkg/guard"
)

// ErrFailPaymentCommandIsNotConstructed is returned when the command was not
// created via NewFailPaymentCommand.
var ErrFailPaymentCommandIsNotConstructed = errors.New(
	"FailPaymentCommand must be created via NewFailPaymentCommand constructor",
)

// FailPaymentCommand represents the gateway declining a payment.
type FailPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID
	reason    payment.FailureReason
	message   string

	guard guard.ConstructorGuard
}

// NewFailPaymentCommand creates a command to record a payment failure with
// its machine-readable reason and the gateway's message.
func NewFailPaymentCommand(
	paymentID kernel.UUID, reason payment.FailureReason, message string,
) (FailPaymentCommand, error) {
	if err := errors.Join(paymentID.Validate(), reason.Validate()); err != nil {
		return FailPaymentCommand{}, err
	}

	return FailPaymentCommand{
		paymentID: paymentID,
		reason:    reason,
		message:   message,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FailPaymentCommand) Validate() error {
	return c.guard.Validate(ErrFailPaymentCommandIsNotConstructed)
}

// PaymentID returns the failing payment.
func (c FailPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

// Reason returns the failure reason code.
func (c FailPaymentCommand) Reason() payment.FailureReason {
	return c.reason
}

// Message returns the gateway's failure message.
func (c FailPaymentCommand) Message() string {
	return c.message
}

// FailPaymentCommandHandler records a payment failure. The order is left
// untouched so the customer can retry with another method; abandoned orders
// are swept by the stale payment job.
type FailPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
}

// NewFailPaymentCommandHandler creates a handler for payment failure.
func NewFailPaymentCommandHandler(uowFactory PaymentUoWFactory) FailPaymentCommandHandler {
	return FailPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the failure command.
func (h FailPaymentCommandHandler) Handle(ctx context.Context, cmd FailPaymentCommand) error {
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
	failed, err := paymentRepo.Get(ctx, cmd.PaymentID())
	if err != nil {
		return err
	}

	if err = failed.MarkAsFailed(cmd.Reason(), cmd.Message()); err != nil {
		return err
	}

	if err = paymentRepo.Update(ctx, failed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
