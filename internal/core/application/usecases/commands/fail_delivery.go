package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrFailDeliveryCommandIsNotConstructed is returned when the command was not
// created via NewFailDeliveryCommand.
var ErrFailDeliveryCommandIsNotConstructed = errors.New(
	"FailDeliveryCommand must be created via NewFailDeliveryCommand constructor",
)

// FailDeliveryCommand represents one failed delivery attempt with its
// machine-readable reason and optional evidence photo.
type FailDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	reason     delivery.FailureReason
	notes      string
	photoURL   string

	guard guard.ConstructorGuard
}

// NewFailDeliveryCommand creates a command to record a failed attempt.
func NewFailDeliveryCommand(
	deliveryID kernel.UUID, reason delivery.FailureReason, notes, photoURL string,
) (FailDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), reason.Validate()); err != nil {
		return FailDeliveryCommand{}, err
	}

	return FailDeliveryCommand{
		deliveryID: deliveryID,
		reason:     reason,
		notes:      notes,
		photoURL:   photoURL,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FailDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the failing delivery.
func (c FailDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Reason returns the failure reason code.
func (c FailDeliveryCommand) Reason() delivery.FailureReason {
	return c.reason
}

// Notes returns the free-text failure notes.
func (c FailDeliveryCommand) Notes() string {
	return c.notes
}

// PhotoURL returns the evidence photo, possibly empty.
func (c FailDeliveryCommand) PhotoURL() string {
	return c.photoURL
}

// FailDeliveryCommandHandler records a failed attempt. Below the attempt
// budget the delivery keeps its state for a retry. At the budget the delivery
// fails terminally and the order is force-cancelled with the
// driver-unavailable reason, stock is restored, the payment is unwound, and
// the driver is released, all in one transaction.
type FailDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewFailDeliveryCommandHandler creates a handler for failed attempts.
func NewFailDeliveryCommandHandler(uowFactory UoWFactory) FailDeliveryCommandHandler {
	return FailDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the failure command.
func (h FailDeliveryCommandHandler) Handle(ctx context.Context, cmd FailDeliveryCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()
	failing, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	terminal, err := failing.MarkFailed(cmd.Reason(), cmd.Notes(), cmd.PhotoURL())
	if err != nil {
		return err
	}

	if terminal {
		orderRepo := uow.OrderRepository()
		abandoned, err := orderRepo.Get(ctx, failing.OrderID())
		if err != nil {
			return err
		}

		if err = abandoned.CancelDueToFailedDelivery(cmd.Notes()); err != nil {
			return err
		}
		if err = restockOrderLines(ctx, uow.ProductRepository(), abandoned); err != nil {
			return err
		}
		if err = settleOrderPayment(ctx, uow.PaymentRepository(), abandoned, "delivery failed", nil); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, abandoned); err != nil {
			return err
		}

		if failing.DriverID() != nil {
			if err = uow.DriverRepository().SetAvailability(ctx, *failing.DriverID(), true); err != nil {
				return err
			}
		}
	}

	if err = deliveryRepo.Update(ctx, failing); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
