package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrRateOrderCommandIsNotConstructed is returned when the command was not
// created via NewRateOrderCommand.
var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand records that the customer rated a delivered order.
// The rating value itself lives with the review service; the lifecycle core
// only tracks that the one-shot rating window was used.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a command to consume the rating window.
func NewRateOrderCommand(orderID kernel.UUID) (RateOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RateOrderCommand{}, err
	}

	return RateOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the rated order.
func (c RateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RateOrderCommandHandler marks a delivered order as rated.
type RateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRateOrderCommandHandler creates a handler for the rating window.
func NewRateOrderCommandHandler(uowFactory OrderUoWFactory) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command.
func (h RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) error {
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
	rated, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = rated.MarkRated(); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, rated); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
