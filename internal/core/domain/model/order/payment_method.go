package order

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// PaymentMethod is how the customer chose to pay at checkout.
// The codes are part of the wire contract.
type PaymentMethod string

const (
	// PaymentMethodCash is paid in cash on delivery.
	PaymentMethodCash PaymentMethod = "CASH"
	// PaymentMethodCard is paid by credit or debit card.
	PaymentMethodCard PaymentMethod = "CARD"
	// PaymentMethodWallet is paid from the in-app wallet balance.
	PaymentMethodWallet PaymentMethod = "WALLET"
)

// Validate checks that the method is one of the enumerated codes.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodWallet:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod", fmt.Errorf("%q is not a valid payment method", string(m)))
	}
}

// String returns the wire representation of the method.
func (m PaymentMethod) String() string {
	return string(m)
}
