package commands

import (
	"context"
	"errors"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/core/ports"
	"quickgo/internal/pkg/errs"
)

// restockOrderLines returns checked-out stock to the catalog for every
// inventory-tracked line of a cancelled order.
func restockOrderLines(ctx context.Context, products ports.ProductRepository, cancelled *order.Order) error {
	for _, line := range cancelled.Lines() {
		if !line.TracksInventory() {
			continue
		}

		item, err := products.Get(ctx, line.ProductID())
		if err != nil {
			return err
		}
		if err = item.IncreaseStock(line.Quantity()); err != nil {
			return err
		}
		if err = products.Update(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// settleOrderPayment winds down the payment of a cancelled order: pending or
// processing payments are cancelled, collected payments are refunded in full.
// Terminal payments are left alone. Orders without a payment are tolerated.
func settleOrderPayment(
	ctx context.Context,
	payments ports.PaymentRepository,
	cancelled *order.Order,
	reason string,
	actor *kernel.UUID,
) error {
	p, err := payments.GetByOrderID(ctx, cancelled.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch p.Status() {
	case payment.StatusPending, payment.StatusProcessing:
		if err = p.Cancel(reason); err != nil {
			return err
		}
	case payment.StatusCompleted, payment.StatusPartiallyRefunded:
		if _, err = p.Refund(nil, reason, actor); err != nil {
			return err
		}
	default:
		return nil
	}

	return payments.Update(ctx, p)
}
