package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrConfirmPickupCommandIsNotConstructed is returned when the command was
// not created via NewConfirmPickupCommand.
var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand represents the driver collecting the order at the
// restaurant.
type ConfirmPickupCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPickupCommand creates a command to confirm pickup.
func NewConfirmPickupCommand(deliveryID kernel.UUID) (ConfirmPickupCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return ConfirmPickupCommand{}, err
	}

	return ConfirmPickupCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

// DeliveryID returns the delivery being picked up.
func (c ConfirmPickupCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// ConfirmPickupCommandHandler moves the delivery to PickedUp and the order in
// lockstep, recording the collecting driver on the order.
type ConfirmPickupCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewConfirmPickupCommandHandler creates a handler for pickup confirmation.
func NewConfirmPickupCommandHandler(uowFactory DispatchUoWFactory) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) error {
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
	pickedUp, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = pickedUp.ConfirmPickup(); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	collected, err := orderRepo.Get(ctx, pickedUp.OrderID())
	if err != nil {
		return err
	}

	// ConfirmPickup is only legal after assignment, so the driver is set.
	if err = collected.MarkPickedUp(*pickedUp.DriverID(), pickedUp.DriverID()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, pickedUp); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, collected); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
