package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrMarkOrderReadyCommandIsNotConstructed is returned when the command was
// not created via NewMarkOrderReadyCommand.
var ErrMarkOrderReadyCommandIsNotConstructed = errors.New(
	"MarkOrderReadyCommand must be created via NewMarkOrderReadyCommand constructor",
)

// MarkOrderReadyCommand represents the kitchen finishing an order. Marking an
// order ready also creates its delivery, so the command carries an optional
// dispatching priority.
type MarkOrderReadyCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actorID  *kernel.UUID
	priority delivery.Priority

	guard guard.ConstructorGuard
}

// NewMarkOrderReadyCommand creates a command to mark an order ready.
// An empty priority defaults to Normal when the delivery is created.
func NewMarkOrderReadyCommand(
	orderID kernel.UUID, actorID *kernel.UUID, priority delivery.Priority,
) (MarkOrderReadyCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkOrderReadyCommand{}, err
	}
	if priority != "" {
		if err := priority.Validate(); err != nil {
			return MarkOrderReadyCommand{}, err
		}
	}

	return MarkOrderReadyCommand{
		orderID:  orderID,
		actorID:  actorID,
		priority: priority,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkOrderReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderReadyCommandIsNotConstructed)
}

// OrderID returns the order that became ready.
func (c MarkOrderReadyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns who marked the order ready, or nil.
func (c MarkOrderReadyCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// Priority returns the requested dispatching priority, empty for the default.
func (c MarkOrderReadyCommand) Priority() delivery.Priority {
	return c.priority
}

// MarkOrderReadyCommandHandler moves an order from Preparing to Ready and
// creates its delivery in the same transaction, snapshotting the pickup and
// dropoff addresses and the customer contact data.
type MarkOrderReadyCommandHandler struct {
	uowFactory UoWFactory
}

// NewMarkOrderReadyCommandHandler creates a handler for the ready transition.
func NewMarkOrderReadyCommandHandler(uowFactory UoWFactory) MarkOrderReadyCommandHandler {
	return MarkOrderReadyCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the command and returns the created delivery.
func (h MarkOrderReadyCommandHandler) Handle(
	ctx context.Context, cmd MarkOrderReadyCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ready, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	restaurant, err := uow.RestaurantRepository().Get(ctx, ready.RestaurantID())
	if err != nil {
		return nil, err
	}
	customer, err := uow.CustomerRepository().Get(ctx, ready.CustomerID())
	if err != nil {
		return nil, err
	}

	if err = ready.MarkReady(cmd.ActorID()); err != nil {
		return nil, err
	}

	created, err := delivery.NewDelivery(delivery.Details{
		OrderID:         ready.ID(),
		OrderNumber:     ready.OrderNumber(),
		PickupAddress:   restaurant.Address(),
		Pickup:          restaurant.Location(),
		DeliveryAddress: ready.DeliveryAddress(),
		Dropoff:         ready.Dropoff(),
		CustomerName:    customer.Name(),
		CustomerPhone:   customer.Phone(),
		DeliveryFee:     ready.DeliveryFee(),
		Tip:             ready.Tip(),
		Priority:        cmd.Priority(),
	})
	if err != nil {
		return nil, err
	}

	if err = ready.AttachDelivery(created.ID()); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Add(ctx, created); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, ready); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
