package delivery

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// Status represents the fulfillment state of a delivery. It tracks physical
// handling of the order, distinct from the kitchen status on the Order.
//
// State transitions:
//
//	Pending ──> Assigned ──> PickingUp ──> PickedUp ──> InTransit ──> Arrived ──> Delivered
//
// with Failed and Cancelled as terminal escape states. Assigned may skip
// straight to PickedUp, and Arrived may be skipped when the driver completes
// directly from InTransit.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status before a driver is assigned.
	StatusPending

	// StatusAssigned indicates a driver accepted the delivery.
	StatusAssigned

	// StatusPickingUp indicates the driver is heading to the restaurant.
	StatusPickingUp

	// StatusPickedUp indicates the driver collected the order.
	StatusPickedUp

	// StatusInTransit indicates the driver is heading to the customer.
	StatusInTransit

	// StatusArrived indicates the driver reached the customer's address.
	StatusArrived

	// StatusDelivered indicates the order was handed over with proof.
	// This is a final state with no further transitions allowed.
	StatusDelivered

	// StatusFailed indicates the delivery exhausted its attempts.
	// This is a final state with no further transitions allowed.
	StatusFailed

	// StatusCancelled indicates the delivery was called off.
	// This is a final state with no further transitions allowed.
	StatusCancelled
)

const entityDelivery = "delivery"

// getStatusStrings returns a map of Status values to their wire strings.
// The strings are part of the API contract and must be preserved verbatim.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusPending:   "PENDING",
		StatusAssigned:  "ASSIGNED",
		StatusPickingUp: "PICKING_UP",
		StatusPickedUp:  "PICKED_UP",
		StatusInTransit: "IN_TRANSIT",
		StatusArrived:   "ARRIVED",
		StatusDelivered: "DELIVERED",
		StatusFailed:    "FAILED",
		StatusCancelled: "CANCELLED",
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
		"status", fmt.Errorf("%q is not a valid delivery status", s))
}

// Validate checks if the Status value is a valid fulfillment state.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid delivery status", s))
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

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusCancelled
}

// Assign transitions the status to Assigned. Only Pending deliveries can be
// assigned to a driver.
func (s Status) Assign() (Status, error) {
	if s != StatusPending {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusAssigned.String())
	}
	return StatusAssigned, nil
}

// StartPickup transitions the status to PickingUp. Re-entry from PickingUp
// is allowed so drivers can refresh their position without an error.
func (s Status) StartPickup() (Status, error) {
	if s != StatusAssigned && s != StatusPickingUp {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusPickingUp.String())
	}
	return StatusPickingUp, nil
}

// ConfirmPickup transitions the status to PickedUp, either from PickingUp or
// straight from Assigned when the driver skips the heading-out update.
func (s Status) ConfirmPickup() (Status, error) {
	if s != StatusAssigned && s != StatusPickingUp {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusPickedUp.String())
	}
	return StatusPickedUp, nil
}

// StartTransit transitions the status to InTransit.
// Only PickedUp deliveries can enter transit.
func (s Status) StartTransit() (Status, error) {
	if s != StatusPickedUp {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusInTransit.String())
	}
	return StatusInTransit, nil
}

// MarkArrived transitions the status to Arrived.
// Only InTransit deliveries can arrive.
func (s Status) MarkArrived() (Status, error) {
	if s != StatusInTransit {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusArrived.String())
	}
	return StatusArrived, nil
}

// Complete transitions the status to Delivered, from InTransit or Arrived.
// Delivered is a final state.
func (s Status) Complete() (Status, error) {
	if s != StatusInTransit && s != StatusArrived {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusDelivered.String())
	}
	return StatusDelivered, nil
}

// Fail transitions the status to Failed from any non-terminal state.
// Failed is a final state reached only when attempts are exhausted.
func (s Status) Fail() (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if s.IsTerminal() {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusFailed.String())
	}
	return StatusFailed, nil
}

// Cancel transitions the status to Cancelled from any non-terminal state.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if s.IsTerminal() {
		return StatusUnknown, errs.NewInvalidTransitionError(entityDelivery, s.String(), StatusCancelled.String())
	}
	return StatusCancelled, nil
}
