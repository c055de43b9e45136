package order

import (
	"fmt"

	"quickgo/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow
// the correct kitchen workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> PickedUp ──> InTransit ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Cancelled is reachable from Pending and Confirmed only. Once preparation
// starts, customer-initiated cancellation is no longer allowed through this
// path. Delivered and Cancelled are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when a customer checks out.
	StatusPending

	// StatusConfirmed indicates the restaurant has accepted the order.
	StatusConfirmed

	// StatusPreparing indicates the kitchen has started preparation.
	StatusPreparing

	// StatusReady indicates the order is ready for pickup by a driver.
	StatusReady

	// StatusPickedUp indicates a driver has collected the order.
	StatusPickedUp

	// StatusInTransit indicates the order is on its way to the customer.
	StatusInTransit

	// StatusDelivered indicates the order reached the customer.
	// This is a final state with no further transitions allowed.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled before preparation.
	// This is a final state with no further transitions allowed.
	StatusCancelled
)

const entityOrder = "order"

// getStatusStrings returns a map of Status values to their wire strings.
// The strings are part of the API contract and must be preserved verbatim.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusPending:   "PENDING",
		StatusConfirmed: "CONFIRMED",
		StatusPreparing: "PREPARING",
		StatusReady:     "READY",
		StatusPickedUp:  "PICKED_UP",
		StatusInTransit: "IN_TRANSIT",
		StatusDelivered: "DELIVERED",
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
		"status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is a valid lifecycle state.
// StatusUnknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid order status", s))
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
	return s == StatusDelivered || s == StatusCancelled
}

// CanBeCancelled reports whether customer-initiated cancellation is still
// allowed from this status.
func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Confirm transitions the status to Confirmed.
// Only Pending orders can be confirmed.
func (s Status) Confirm() (Status, error) {
	if s != StatusPending {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusConfirmed.String())
	}
	return StatusConfirmed, nil
}

// StartPreparing transitions the status to Preparing.
// Only Confirmed orders can start preparation.
func (s Status) StartPreparing() (Status, error) {
	if s != StatusConfirmed {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusPreparing.String())
	}
	return StatusPreparing, nil
}

// MarkReady transitions the status to Ready.
// Only Preparing orders can be marked ready.
func (s Status) MarkReady() (Status, error) {
	if s != StatusPreparing {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusReady.String())
	}
	return StatusReady, nil
}

// MarkPickedUp transitions the status to PickedUp.
// Only Ready orders can be picked up.
func (s Status) MarkPickedUp() (Status, error) {
	if s != StatusReady {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusPickedUp.String())
	}
	return StatusPickedUp, nil
}

// MarkInTransit transitions the status to InTransit.
// Only PickedUp orders can enter transit.
func (s Status) MarkInTransit() (Status, error) {
	if s != StatusPickedUp {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusInTransit.String())
	}
	return StatusInTransit, nil
}

// MarkDelivered transitions the status to Delivered.
// Only InTransit orders can be delivered. Delivered is a final state.
func (s Status) MarkDelivered() (Status, error) {
	if s != StatusInTransit {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusDelivered.String())
	}
	return StatusDelivered, nil
}

// Cancel transitions the status to Cancelled through the customer-facing
// cancellation window. Legal from Pending and Confirmed only.
func (s Status) Cancel() (Status, error) {
	if !s.CanBeCancelled() {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusCancelled.String())
	}
	return StatusCancelled, nil
}

// ForceCancel transitions the status to Cancelled from any non-terminal
// state. It backs system-initiated cancellations such as a terminally
// failed delivery, which happen outside the customer cancellation window.
func (s Status) ForceCancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if s.IsTerminal() {
		return StatusUnknown, errs.NewInvalidTransitionError(entityOrder, s.String(), StatusCancelled.String())
	}
	return StatusCancelled, nil
}
