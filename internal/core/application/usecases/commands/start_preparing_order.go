package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrStartPreparingOrderCommandIsNotConstructed is returned when the command
// was not created via NewStartPreparingOrderCommand.
var ErrStartPreparingOrderCommandIsNotConstructed = errors.New(
	"StartPreparingOrderCommand must be created via NewStartPreparingOrderCommand constructor",
)

// StartPreparingOrderCommand represents the kitchen starting on a confirmed
// order.
type StartPreparingOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartPreparingOrderCommand creates a command to start preparation.
func NewStartPreparingOrderCommand(orderID kernel.UUID, actorID *kernel.UUID) (StartPreparingOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return StartPreparingOrderCommand{}, err
	}

	return StartPreparingOrderCommand{
		orderID: orderID,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartPreparingOrderCommand) Validate() error {
	return c.guard.Validate(ErrStartPreparingOrderCommandIsNotConstructed)
}

// OrderID returns the order entering preparation.
func (c StartPreparingOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns who started preparation, or nil.
func (c StartPreparingOrderCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// StartPreparingOrderCommandHandler moves an order from Confirmed to Preparing.
type StartPreparingOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewStartPreparingOrderCommandHandler creates a handler for starting preparation.
func NewStartPreparingOrderCommandHandler(uowFactory OrderUoWFactory) StartPreparingOrderCommandHandler {
	return StartPreparingOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h StartPreparingOrderCommandHandler) Handle(ctx context.Context, cmd StartPreparingOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	preparing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = preparing.StartPreparing(cmd.ActorID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, preparing); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
