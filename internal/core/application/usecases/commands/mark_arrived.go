package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrMarkArrivedCommandIsNotConstructed is returned when the command was not
// created via NewMarkArrivedCommand.
var ErrMarkArrivedCommandIsNotConstructed = errors.New(
	"MarkArrivedCommand must be created via NewMarkArrivedCommand constructor",
)

// MarkArrivedCommand represents the driver reaching the customer's address.
type MarkArrivedCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkArrivedCommand creates a command to record arrival.
func NewMarkArrivedCommand(deliveryID kernel.UUID) (MarkArrivedCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return MarkArrivedCommand{}, err
	}

	return MarkArrivedCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkArrivedCommandIsNotConstructed)
}

// DeliveryID returns the arriving delivery.
func (c MarkArrivedCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// MarkArrivedCommandHandler moves a delivery from InTransit to Arrived.
// The order stays InTransit; only the handover completes it.
type MarkArrivedCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewMarkArrivedCommandHandler creates a handler for arrival.
func NewMarkArrivedCommandHandler(uowFactory DeliveryUoWFactory) MarkArrivedCommandHandler {
	return MarkArrivedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h MarkArrivedCommandHandler) Handle(ctx context.Context, cmd MarkArrivedCommand) error {
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
	arrived, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = arrived.MarkArrived(); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, arrived); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
