package payment

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// FailureReason is the machine-readable code recorded when a charge fails.
// The codes are part of the wire contract.
type FailureReason string

const (
	// FailureInsufficientFunds means the account balance did not cover the charge.
	FailureInsufficientFunds FailureReason = "INSUFFICIENT_FUNDS"
	// FailureCardDeclined means the issuer declined the card.
	FailureCardDeclined FailureReason = "CARD_DECLINED"
	// FailureExpiredCard means the card is past its expiry date.
	FailureExpiredCard FailureReason = "EXPIRED_CARD"
	// FailureInvalidCard means the card details failed validation.
	FailureInvalidCard FailureReason = "INVALID_CARD"
	// FailureFraudDetection means the charge was blocked as suspicious.
	FailureFraudDetection FailureReason = "FRAUD_DETECTION"
	// FailureNetworkError means the gateway was unreachable.
	FailureNetworkError FailureReason = "NETWORK_ERROR"
	// FailureGatewayError means the gateway returned an error.
	FailureGatewayError FailureReason = "GATEWAY_ERROR"
	// FailureTimeout means the gateway did not answer in time.
	FailureTimeout FailureReason = "TIMEOUT"
	// FailureOther covers reasons outside the enumerated codes.
	FailureOther FailureReason = "OTHER"
)

// Validate checks that the reason is one of the enumerated codes.
func (r FailureReason) Validate() error {
	switch r {
	case FailureInsufficientFunds, FailureCardDeclined, FailureExpiredCard,
		FailureInvalidCard, FailureFraudDetection, FailureNetworkError,
		FailureGatewayError, FailureTimeout, FailureOther:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"failureReason", fmt.Errorf("%q is not a valid failure reason", string(r)))
	}
}

// String returns the wire representation of the reason.
func (r FailureReason) String() string {
	return string(r)
}
