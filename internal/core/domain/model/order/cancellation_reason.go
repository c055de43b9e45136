package order

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// CancellationReason is the machine-readable code recorded when an order is
// cancelled. The codes are part of the wire contract.
type CancellationReason string

const (
	// CancelledByCustomer means the customer asked to cancel.
	CancelledByCustomer CancellationReason = "CUSTOMER_REQUEST"
	// CancelledRestaurantClosed means the restaurant was closed or rejected the order.
	CancelledRestaurantClosed CancellationReason = "RESTAURANT_CLOSED"
	// CancelledOutOfStock means one or more items could not be prepared.
	CancelledOutOfStock CancellationReason = "OUT_OF_STOCK"
	// CancelledDriverUnavailable means delivery failed terminally with no driver able to complete it.
	CancelledDriverUnavailable CancellationReason = "DRIVER_UNAVAILABLE"
	// CancelledPaymentFailed means the payment could not be collected.
	CancelledPaymentFailed CancellationReason = "PAYMENT_FAILED"
	// CancelledOther covers reasons outside the enumerated codes.
	CancelledOther CancellationReason = "OTHER"
)

// Validate checks that the reason is one of the enumerated codes.
func (r CancellationReason) Validate() error {
	switch r {
	case CancelledByCustomer, CancelledRestaurantClosed, CancelledOutOfStock,
		CancelledDriverUnavailable, CancelledPaymentFailed, CancelledOther:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"cancellationReason", fmt.Errorf("%q is not a valid cancellation reason", string(r)))
	}
}

// String returns the wire representation of the reason.
func (r CancellationReason) String() string {
	return string(r)
}
