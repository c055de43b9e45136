package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/guard"
)

// ErrCancelOrderCommandIsNotConstructed is returned when the command was not
// created via NewCancelOrderCommand.
var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a cancellation request through the customer
// window, legal while the order is Pending or Confirmed.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  order.CancellationReason
	notes   string
	actorID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a cancellation command with a machine-readable
// reason code and optional free-text notes.
func NewCancelOrderCommand(
	orderID kernel.UUID, reason order.CancellationReason, notes string, actorID *kernel.UUID,
) (CancelOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), reason.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		reason:  reason,
		notes:   notes,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the cancellation reason code.
func (c CancelOrderCommand) Reason() order.CancellationReason {
	return c.reason
}

// Notes returns the free-text cancellation notes.
func (c CancelOrderCommand) Notes() string {
	return c.notes
}

// ActorID returns who requested the cancellation, or nil.
func (c CancelOrderCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// CancelOrderCommandHandler cancels an order and unwinds its side effects in
// one transaction: tracked stock goes back to the catalog and the payment is
// cancelled or refunded depending on how far it got.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
	cancelled, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = cancelled.Cancel(cmd.Reason(), cmd.Notes(), cmd.ActorID()); err != nil {
		return err
	}

	if err = restockOrderLines(ctx, uow.ProductRepository(), cancelled); err != nil {
		return err
	}
	if err = settleOrderPayment(ctx, uow.PaymentRepository(), cancelled, "order cancelled", cmd.ActorID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, cancelled); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
