package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/guard"
)

// ErrAssignDriverCommandIsNotConstructed is returned when the command was not
// created via NewAssignDriverCommand.
var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand represents a driver accepting a pending delivery.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	driverID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a command to assign a driver to a delivery.
func NewAssignDriverCommand(deliveryID, driverID kernel.UUID) (AssignDriverCommand, error) {
	if err := errors.Join(deliveryID.Validate(), driverID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// DeliveryID returns the delivery being accepted.
func (c AssignDriverCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// DriverID returns the accepting driver.
func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// AssignDriverCommandHandler assigns an approved, available driver to a
// pending delivery and, in the same transaction, marks the driver busy and
// stamps the driver reference on the order. The driver row is locked while
// the availability check runs, so two deliveries cannot grab the same driver.
type AssignDriverCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewAssignDriverCommandHandler creates a handler for driver assignment.
func NewAssignDriverCommandHandler(uowFactory DispatchUoWFactory) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment command.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
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
	assigned, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	driverRepo := uow.DriverRepository()
	driver, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = assigned.AssignDriver(driver); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	accepted, err := orderRepo.Get(ctx, assigned.OrderID())
	if err != nil {
		return err
	}
	if err = accepted.AssignDriver(driver.ID()); err != nil {
		return err
	}

	if err = driverRepo.SetAvailability(ctx, driver.ID(), false); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, assigned); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, accepted); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
