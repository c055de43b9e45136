package delivery

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// FailureReason is the machine-readable code recorded on a failed delivery
// attempt. The codes are part of the wire contract.
type FailureReason string

const (
	// FailureCustomerUnavailable means nobody answered at the address.
	FailureCustomerUnavailable FailureReason = "CUSTOMER_UNAVAILABLE"
	// FailureWrongAddress means the recorded address could not be found.
	FailureWrongAddress FailureReason = "WRONG_ADDRESS"
	// FailureCustomerRejected means the customer refused the order.
	FailureCustomerRejected FailureReason = "CUSTOMER_REJECTED"
	// FailureAccident means the driver had an accident en route.
	FailureAccident FailureReason = "ACCIDENT"
	// FailureVehicleIssue means the driver's vehicle broke down.
	FailureVehicleIssue FailureReason = "VEHICLE_ISSUE"
	// FailureOther covers reasons outside the enumerated codes.
	FailureOther FailureReason = "OTHER"
)

// Validate checks that the reason is one of the enumerated codes.
func (r FailureReason) Validate() error {
	switch r {
	case FailureCustomerUnavailable, FailureWrongAddress, FailureCustomerRejected,
		FailureAccident, FailureVehicleIssue, FailureOther:
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

// Priority orders competing deliveries for dispatching. The codes are part
// of the wire contract.
type Priority string

const (
	// PriorityLow is below-normal urgency.
	PriorityLow Priority = "LOW"
	// PriorityNormal is the default urgency.
	PriorityNormal Priority = "NORMAL"
	// PriorityHigh is above-normal urgency.
	PriorityHigh Priority = "HIGH"
	// PriorityUrgent jumps the queue.
	PriorityUrgent Priority = "URGENT"
)

// Validate checks that the priority is one of the enumerated codes.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"priority", fmt.Errorf("%q is not a valid priority", string(p)))
	}
}

// String returns the wire representation of the priority.
func (p Priority) String() string {
	return string(p)
}
