package payment

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// Status represents the money-movement state of a payment.
//
// State transitions:
//
//	Pending ──> Processing ──> Completed ──> Refunded / PartiallyRefunded
//
// Failed and Cancelled are reachable from every state except Completed and
// Refunded. Refunds are possible only from Completed, and from
// PartiallyRefunded while a balance remains.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when checkout initiates a charge.
	StatusPending

	// StatusProcessing indicates the charge was handed to the gateway.
	StatusProcessing

	// StatusCompleted indicates the money arrived. The only state refunds
	// can start from.
	StatusCompleted

	// StatusFailed indicates the charge was declined or errored.
	StatusFailed

	// StatusCancelled indicates the charge was abandoned before completion.
	StatusCancelled

	// StatusRefunded indicates the full amount went back to the customer.
	StatusRefunded

	// StatusPartiallyRefunded indicates part of the amount went back.
	StatusPartiallyRefunded
)

const entityPayment = "payment"

// getStatusStrings returns a map of Status values to their wire strings.
// The strings are part of the API contract and must be preserved verbatim.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:           "UNKNOWN",
		StatusPending:           "PENDING",
		StatusProcessing:        "PROCESSING",
		StatusCompleted:         "COMPLETED",
		StatusFailed:            "FAILED",
		StatusCancelled:         "CANCELLED",
		StatusRefunded:          "REFUNDED",
		StatusPartiallyRefunded: "PARTIALLY_REFUNDED",
	}
}

// ParseStatus converts a wire string back to a Status value.
// Returns an error for unrecognized strings, including "UNKNOWN".
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the Status value is a valid payment state.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusPartiallyRefunded {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// This method implements the fmt.Stringer interface and is safe to call
// on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsRefundable reports whether a refund can start from this status.
// Completed allows the first refund; PartiallyRefunded allows further
// refunds of the remaining balance.
func (s Status) IsRefundable() bool {
	return s == StatusCompleted || s == StatusPartiallyRefunded
}

// MarkAsProcessing transitions the status to Processing.
// Only Pending payments can enter processing.
func (s Status) MarkAsProcessing() (Status, error) {
	if s != StatusPending {
		return StatusUnknown, errs.NewInvalidTransitionError(entityPayment, s.String(), StatusProcessing.String())
	}
	return StatusProcessing, nil
}

// MarkAsCompleted transitions the status to Completed, from Pending or
// Processing.
func (s Status) MarkAsCompleted() (Status, error) {
	if s != StatusPending && s != StatusProcessing {
		return StatusUnknown, errs.NewInvalidTransitionError(entityPayment, s.String(), StatusCompleted.String())
	}
	return StatusCompleted, nil
}

// MarkAsFailed transitions the status to Failed, from any state except
// Completed and Refunded.
func (s Status) MarkAsFailed() (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if s == StatusCompleted || s == StatusRefunded {
		return StatusUnknown, errs.NewInvalidTransitionError(entityPayment, s.String(), StatusFailed.String())
	}
	return StatusFailed, nil
}

// Cancel transitions the status to Cancelled, from any state except
// Completed and Refunded.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if s == StatusCompleted || s == StatusRefunded {
		return StatusUnknown, errs.NewInvalidTransitionError(entityPayment, s.String(), StatusCancelled.String())
	}
	return StatusCancelled, nil
}
