package commands

import (
	"context"
	"errors"
	"time"

	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/errs"
	"quickgo/internal/pkg/guard"
)

// ErrCancelStalePaymentsCommandIsNotConstructed is returned when the command
// was not created via NewCancelStalePaymentsCommand.
var ErrCancelStalePaymentsCommandIsNotConstructed = errors.New(
	"CancelStalePaymentsCommand must be created via NewCancelStalePaymentsCommand constructor",
)

// CancelStalePaymentsCommand sweeps payments still pending at the cutoff.
type CancelStalePaymentsCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewCancelStalePaymentsCommand creates a sweep command. Payments created
// before the cutoff and still pending are cancelled.
func NewCancelStalePaymentsCommand(cutoff time.Time) (CancelStalePaymentsCommand, error) {
	if cutoff.IsZero() {
		return CancelStalePaymentsCommand{}, errs.NewValueIsRequiredError("cutoff")
	}

	return CancelStalePaymentsCommand{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelStalePaymentsCommand) Validate() error {
	return c.guard.Validate(ErrCancelStalePaymentsCommandIsNotConstructed)
}

// Cutoff returns the creation-time threshold for the sweep.
func (c CancelStalePaymentsCommand) Cutoff() time.Time {
	return c.cutoff
}

// CancelStalePaymentsCommandHandler cancels every payment still pending at
// the cutoff. Orders whose cancellation window is still open are cancelled
// alongside with the payment-failed reason and their tracked stock returned;
// orders that progressed past the window are left alone.
type CancelStalePaymentsCommandHandler struct {
	uowFactory PaymentUoWFactory
}

// NewCancelStalePaymentsCommandHandler creates a handler for the sweep.
func NewCancelStalePaymentsCommandHandler(uowFactory PaymentUoWFactory) CancelStalePaymentsCommandHandler {
	return CancelStalePaymentsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the sweep and returns how many payments were cancelled.
func (h CancelStalePaymentsCommandHandler) Handle(
	ctx context.Context, cmd CancelStalePaymentsCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	stale, err := paymentRepo.GetAllStalePending(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	orderRepo := uow.OrderRepository()
	cancelled := 0
	for _, p := range stale {
		if err = p.Cancel("payment not completed in time"); err != nil {
			return 0, err
		}
		if err = paymentRepo.Update(ctx, p); err != nil {
			return 0, err
		}

		abandoned, err := orderRepo.Get(ctx, p.OrderID())
		if err != nil {
			return 0, err
		}
		if abandoned.CanBeCancelled() {
			if err = abandoned.Cancel(order.CancelledPaymentFailed, "payment not completed in time", nil); err != nil {
				return 0, err
			}
			if err = restockOrderLines(ctx, uow.ProductRepository(), abandoned); err != nil {
				return 0, err
			}
			if err = orderRepo.Update(ctx, abandoned); err != nil {
				return 0, err
			}
		}

		cancelled++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return cancelled, nil
}
