package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrStartPickupCommandIsNotConstructed is returned when the command was not
// created via NewStartPickupCommand.
var ErrStartPickupCommandIsNotConstructed = errors.New(
	"StartPickupCommand must be created via NewStartPickupCommand constructor",
)

// StartPickupCommand represents the driver heading to the restaurant.
type StartPickupCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartPickupCommand creates a command to start the pickup leg.
func NewStartPickupCommand(deliveryID kernel.UUID) (StartPickupCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return StartPickupCommand{}, err
	}

	return StartPickupCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartPickupCommand) Validate() error {
	return c.guard.Validate(ErrStartPickupCommandIsNotConstructed)
}

// DeliveryID returns the delivery whose pickup leg starts.
func (c StartPickupCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// StartPickupCommandHandler moves a delivery into PickingUp. The transition
// is re-entrant, so a repeated request is not an error.
type StartPickupCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewStartPickupCommandHandler creates a handler for the pickup leg.
func NewStartPickupCommandHandler(uowFactory DeliveryUoWFactory) StartPickupCommandHandler {
	return StartPickupCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h StartPickupCommandHandler) Handle(ctx context.Context, cmd StartPickupCommand) error {
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
	pickingUp, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = pickingUp.StartPickup(); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, pickingUp); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
