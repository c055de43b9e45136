package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"
	"quickgo/internal/pkg/guard"
)

// ErrCompleteDeliveryCommandIsNotConstructed is returned when the command was
// not created via NewCompleteDeliveryCommand.
var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand represents the proven handover to the customer.
// At least one proof artifact, a photo or a signature, is required.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID    kernel.UUID
	proofPhotoURL string
	signature     string
	notes         string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to complete a delivery.
// It fails when neither a proof photo nor a signature is supplied.
func NewCompleteDeliveryCommand(
	deliveryID kernel.UUID, proofPhotoURL, signature, notes string,
) (CompleteDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	if proofPhotoURL == "" && signature == "" {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredError("proofPhotoURL or signature")
	}

	return CompleteDeliveryCommand{
		deliveryID:    deliveryID,
		proofPhotoURL: proofPhotoURL,
		signature:     signature,
		notes:         notes,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being completed.
func (c CompleteDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// ProofPhotoURL returns the handover photo, possibly empty.
func (c CompleteDeliveryCommand) ProofPhotoURL() string {
	return c.proofPhotoURL
}

// Signature returns the handover signature, possibly empty.
func (c CompleteDeliveryCommand) Signature() string {
	return c.signature
}

// Notes returns the driver's free-text completion notes.
func (c CompleteDeliveryCommand) Notes() string {
	return c.notes
}

// CompleteDeliveryCommandHandler finishes a delivery: the delivery and order
// both reach Delivered, lifetime statistics of the restaurant, customer, and
// driver are incremented in place, and the driver becomes available again.
// Everything happens in one transaction.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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
	completed, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = completed.Complete(cmd.ProofPhotoURL(), cmd.Signature(), cmd.Notes()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	delivered, err := orderRepo.Get(ctx, completed.OrderID())
	if err != nil {
		return err
	}

	if err = delivered.MarkDelivered(completed.DriverID()); err != nil {
		return err
	}

	driverID := *completed.DriverID()
	if err = uow.RestaurantRepository().IncrementDeliveredStats(ctx, delivered.RestaurantID(), delivered.Total()); err != nil {
		return err
	}
	if err = uow.CustomerRepository().IncrementDeliveredStats(ctx, delivered.CustomerID(), delivered.Total()); err != nil {
		return err
	}

	driverRepo := uow.DriverRepository()
	if err = driverRepo.IncrementDeliveredStats(ctx, driverID, completed.DriverEarnings()); err != nil {
		return err
	}
	if err = driverRepo.SetAvailability(ctx, driverID, true); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, completed); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, delivered); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
