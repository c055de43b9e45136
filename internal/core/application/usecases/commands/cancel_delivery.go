package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrCancelDeliveryCommandIsNotConstructed is returned when the command was
// not created via NewCancelDeliveryCommand.
var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand represents dispatch calling a delivery off.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	notes      string

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand creates a command to cancel a delivery.
func NewCancelDeliveryCommand(deliveryID kernel.UUID, notes string) (CancelDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return CancelDeliveryCommand{
		deliveryID: deliveryID,
		notes:      notes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to cancel.
func (c CancelDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Notes returns the free-text cancellation notes.
func (c CancelDeliveryCommand) Notes() string {
	return c.notes
}

// CancelDeliveryCommandHandler cancels a delivery from any non-terminal state
// and releases the assigned driver. The order is left where it is; dispatch
// decides separately what happens to it.
type CancelDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewCancelDeliveryCommandHandler creates a handler for delivery cancellation.
func NewCancelDeliveryCommandHandler(uowFactory DispatchUoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
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
	cancelled, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = cancelled.Cancel(cmd.Notes()); err != nil {
		return err
	}

	if cancelled.DriverID() != nil {
		if err = uow.DriverRepository().SetAvailability(ctx, *cancelled.DriverID(), true); err != nil {
			return err
		}
	}

	if err = deliveryRepo.Update(ctx, cancelled); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
