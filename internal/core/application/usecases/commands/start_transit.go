package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrStartTransitCommandIsNotConstructed is returned when the command was not
// created via NewStartTransitCommand.
var ErrStartTransitCommandIsNotConstructed = errors.New(
	"StartTransitCommand must be created via NewStartTransitCommand constructor",
)

// StartTransitCommand represents the driver heading to the customer.
type StartTransitCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartTransitCommand creates a command to start the transit leg.
func NewStartTransitCommand(deliveryID kernel.UUID) (StartTransitCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return StartTransitCommand{}, err
	}

	return StartTransitCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartTransitCommand) Validate() error {
	return c.guard.Validate(ErrStartTransitCommandIsNotConstructed)
}

// DeliveryID returns the delivery entering transit.
func (c StartTransitCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// StartTransitCommandHandler moves the delivery to InTransit and the order in
// lockstep.
type StartTransitCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewStartTransitCommandHandler creates a handler for the transit leg.
func NewStartTransitCommandHandler(uowFactory DispatchUoWFactory) StartTransitCommandHandler {
	return StartTransitCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h StartTransitCommandHandler) Handle(ctx context.Context, cmd StartTransitCommand) error {
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
	inTransit, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = inTransit.StartTransit(); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	carried, err := orderRepo.Get(ctx, inTransit.OrderID())
	if err != nil {
		return err
	}

	if err = carried.MarkInTransit(inTransit.DriverID()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, inTransit); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, carried); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
