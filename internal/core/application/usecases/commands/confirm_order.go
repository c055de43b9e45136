package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrConfirmOrderCommandIsNotConstructed is returned when the command was not
// created via NewConfirmOrderCommand.
var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents the restaurant accepting a pending order.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm an order. The actor is
// optional and recorded in the order history when present.
func NewConfirmOrderCommand(orderID kernel.UUID, actorID *kernel.UUID) (ConfirmOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return ConfirmOrderCommand{
		orderID: orderID,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns who confirmed the order, or nil.
func (c ConfirmOrderCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// ConfirmOrderCommandHandler moves an order from Pending to Confirmed and
// stamps the estimated delivery time from the restaurant's time promises.
type ConfirmOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(uowFactory CheckoutUoWFactory) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the confirmation command.
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) error {
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
	confirmed, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	restaurant, err := uow.RestaurantRepository().Get(ctx, confirmed.RestaurantID())
	if err != nil {
		return err
	}

	if err = confirmed.Confirm(cmd.ActorID(), restaurant.PreparationTime(), restaurant.MaxDeliveryTime()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, confirmed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
