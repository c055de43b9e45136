package delivery

import (
	"errors"
	"fmt"
	"time"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/user"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

const (
	// DefaultMaxAttempts is how many failed attempts a delivery survives
	// before it fails terminally.
	DefaultMaxAttempts = 3

	// averageSpeedKmh is the speed heuristic behind delivery ETAs.
	averageSpeedKmh = 30

	// etaMargin is the fixed buffer added on top of the travel estimate.
	etaMargin = 10 * time.Minute
)

// Details carries the snapshots a new delivery is created from: the order
// reference, both addresses with coordinates, customer contact data, and the
// money destined for the driver.
type Details struct {
	OrderID         kernel.UUID
	OrderNumber     string
	PickupAddress   string
	Pickup          kernel.GeoPoint
	DeliveryAddress string
	Dropoff         kernel.GeoPoint
	CustomerName    string
	CustomerPhone   string
	DeliveryFee     decimal.Decimal
	Tip             decimal.Decimal
	Priority        Priority
}

// Delivery is the aggregate root of physical fulfillment. It is created once
// the order is ready, assigned to an approved available driver, and moves
// through pickup and transit to a proven handover. Failed attempts increment
// a counter; the delivery fails terminally only when the counter reaches its
// maximum, which force-cancels the order.
//
// Delivery maintains these invariants:
//   - driver earnings always equal delivery fee + tip
//   - the attempt counter increments only on failed attempts
//   - Failed is reached if and only if attempts >= max attempts
type Delivery struct {
	id          kernel.UUID
	orderID     kernel.UUID
	orderNumber string
	driverID    *kernel.UUID

	status   Status
	priority Priority

	pickupAddress   string
	pickup          kernel.GeoPoint
	deliveryAddress string
	dropoff         kernel.GeoPoint
	customerName    string
	customerPhone   string

	distanceKm     *decimal.Decimal
	deliveryFee    decimal.Decimal
	tip            decimal.Decimal
	driverEarnings decimal.Decimal

	attempts    int
	maxAttempts int

	failureReason   FailureReason
	failureNotes    string
	failurePhotoURL string

	proofPhotoURL string
	signature     string
	deliveryNotes string

	estimatedDeliveryTime *time.Time
	assignedAt            *time.Time
	pickupStartedAt       *time.Time
	pickedUpAt            *time.Time
	inTransitAt           *time.Time
	arrivedAt             *time.Time
	deliveredAt           *time.Time
	failedAt              *time.Time
	cancelledAt           *time.Time

	history   []StatusChange
	createdAt time.Time

	isConstructed bool
}

// NewDelivery creates a Pending delivery for an order that became ready.
// The route distance is computed immediately from the address snapshots.
// Priority defaults to Normal when unset.
func NewDelivery(details Details) (*Delivery, error) {
	if details.Priority == "" {
		details.Priority = PriorityNormal
	}
	if err := errors.Join(
		details.OrderID.Validate(),
		details.Pickup.Validate(),
		details.Dropoff.Validate(),
		details.Priority.Validate(),
	); err != nil {
		return nil, err
	}
	if details.OrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	if details.DeliveryFee.IsNegative() || details.Tip.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"deliveryFee", fmt.Errorf("fee %s and tip %s must not be negative", details.DeliveryFee, details.Tip))
	}

	d := &Delivery{
		id:              kernel.NewUUID(),
		orderID:         details.OrderID,
		orderNumber:     details.OrderNumber,
		status:          StatusPending,
		priority:        details.Priority,
		pickupAddress:   details.PickupAddress,
		pickup:          details.Pickup,
		deliveryAddress: details.DeliveryAddress,
		dropoff:         details.Dropoff,
		customerName:    details.CustomerName,
		customerPhone:   details.CustomerPhone,
		deliveryFee:     details.DeliveryFee,
		tip:             details.Tip,
		driverEarnings:  details.DeliveryFee.Add(details.Tip),
		maxAttempts:     DefaultMaxAttempts,
		createdAt:       time.Now().UTC(),
		isConstructed:   true,
	}
	if _, err := d.CalculateDistance(); err != nil {
		return nil, err
	}
	d.history = append(d.history, NewStatusChange(StatusPending, "delivery created", nil))

	return d, nil
}

// Snapshot carries every persisted field of a Delivery for reconstruction.
type Snapshot struct {
	ID                    kernel.UUID
	OrderID               kernel.UUID
	OrderNumber           string
	DriverID              *kernel.UUID
	Status                Status
	Priority              Priority
	PickupAddress         string
	Pickup                kernel.GeoPoint
	DeliveryAddress       string
	Dropoff               kernel.GeoPoint
	CustomerName          string
	CustomerPhone         string
	DistanceKm            *decimal.Decimal
	DeliveryFee           decimal.Decimal
	Tip                   decimal.Decimal
	DriverEarnings        decimal.Decimal
	Attempts              int
	MaxAttempts           int
	FailureReason         FailureReason
	FailureNotes          string
	FailurePhotoURL       string
	ProofPhotoURL         string
	Signature             string
	DeliveryNotes         string
	EstimatedDeliveryTime *time.Time
	AssignedAt            *time.Time
	PickupStartedAt       *time.Time
	PickedUpAt            *time.Time
	InTransitAt           *time.Time
	ArrivedAt             *time.Time
	DeliveredAt           *time.Time
	FailedAt              *time.Time
	CancelledAt           *time.Time
	History               []StatusChange
	CreatedAt             time.Time
}

// RestoreDelivery reconstructs a delivery from persistence.
// It must only be called by repositories.
func RestoreDelivery(s Snapshot) *Delivery {
	return &Delivery{
		id:                    s.ID,
		orderID:               s.OrderID,
		orderNumber:           s.OrderNumber,
		driverID:              s.DriverID,
		status:                s.Status,
		priority:              s.Priority,
		pickupAddress:         s.PickupAddress,
		pickup:                s.Pickup,
		deliveryAddress:       s.DeliveryAddress,
		dropoff:               s.Dropoff,
		customerName:          s.CustomerName,
		customerPhone:         s.CustomerPhone,
		distanceKm:            s.DistanceKm,
		deliveryFee:           s.DeliveryFee,
		tip:                   s.Tip,
		driverEarnings:        s.DriverEarnings,
		attempts:              s.Attempts,
		maxAttempts:           s.MaxAttempts,
		failureReason:         s.FailureReason,
		failureNotes:          s.FailureNotes,
		failurePhotoURL:       s.FailurePhotoURL,
		proofPhotoURL:         s.ProofPhotoURL,
		signature:             s.Signature,
		deliveryNotes:         s.DeliveryNotes,
		estimatedDeliveryTime: s.EstimatedDeliveryTime,
		assignedAt:            s.AssignedAt,
		pickupStartedAt:       s.PickupStartedAt,
		pickedUpAt:            s.PickedUpAt,
		inTransitAt:           s.InTransitAt,
		arrivedAt:             s.ArrivedAt,
		deliveredAt:           s.DeliveredAt,
		failedAt:              s.FailedAt,
		cancelledAt:           s.CancelledAt,
		history:               s.History,
		createdAt:             s.CreatedAt,
		isConstructed:         true,
	}
}

// Validate ensures the Delivery was created through a constructor.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the fulfilled order.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// OrderNumber returns the customer-facing order number snapshot.
func (d *Delivery) OrderNumber() string {
	return d.orderNumber
}

// DriverID returns the assigned driver, or nil before assignment.
func (d *Delivery) DriverID() *kernel.UUID {
	return d.driverID
}

// Status returns the current fulfillment state.
func (d *Delivery) Status() Status {
	return d.status
}

// Priority returns the dispatching priority.
func (d *Delivery) Priority() Priority {
	return d.priority
}

// PickupAddress returns the restaurant address snapshot.
func (d *Delivery) PickupAddress() string {
	return d.pickupAddress
}

// Pickup returns the restaurant coordinates.
func (d *Delivery) Pickup() kernel.GeoPoint {
	return d.pickup
}

// DeliveryAddress returns the customer address snapshot.
func (d *Delivery) DeliveryAddress() string {
	return d.deliveryAddress
}

// Dropoff returns the customer coordinates.
func (d *Delivery) Dropoff() kernel.GeoPoint {
	return d.dropoff
}

// CustomerName returns the recipient name snapshot.
func (d *Delivery) CustomerName() string {
	return d.customerName
}

// CustomerPhone returns the recipient contact snapshot.
func (d *Delivery) CustomerPhone() string {
	return d.customerPhone
}

// DistanceKm returns the computed route distance, or nil before computation.
func (d *Delivery) DistanceKm() *decimal.Decimal {
	return d.distanceKm
}

// DeliveryFee returns the fee destined for the driver.
func (d *Delivery) DeliveryFee() decimal.Decimal {
	return d.deliveryFee
}

// Tip returns the tip destined for the driver.
func (d *Delivery) Tip() decimal.Decimal {
	return d.tip
}

// DriverEarnings returns delivery fee + tip.
func (d *Delivery) DriverEarnings() decimal.Decimal {
	return d.driverEarnings
}

// Attempts returns how many delivery attempts failed so far.
func (d *Delivery) Attempts() int {
	return d.attempts
}

// MaxAttempts returns the failure budget before the delivery fails terminally.
func (d *Delivery) MaxAttempts() int {
	return d.maxAttempts
}

// FailureReason returns the most recent failure code, empty if none.
func (d *Delivery) FailureReason() FailureReason {
	return d.failureReason
}

// FailureNotes returns the most recent failure notes.
func (d *Delivery) FailureNotes() string {
	return d.failureNotes
}

// FailurePhotoURL returns the most recent failure evidence photo.
func (d *Delivery) FailurePhotoURL() string {
	return d.failurePhotoURL
}

// ProofPhotoURL returns the handover photo, empty before completion.
func (d *Delivery) ProofPhotoURL() string {
	return d.proofPhotoURL
}

// Signature returns the handover signature, empty before completion.
func (d *Delivery) Signature() string {
	return d.signature
}

// DeliveryNotes returns the driver's free-text completion notes.
func (d *Delivery) DeliveryNotes() string {
	return d.deliveryNotes
}

// EstimatedDeliveryTime returns the ETA computed at assignment, or nil.
func (d *Delivery) EstimatedDeliveryTime() *time.Time {
	return d.estimatedDeliveryTime
}

// AssignedAt returns when a driver accepted the delivery.
func (d *Delivery) AssignedAt() *time.Time {
	return d.assignedAt
}

// PickupStartedAt returns when the driver headed to the restaurant.
func (d *Delivery) PickupStartedAt() *time.Time {
	return d.pickupStartedAt
}

// PickedUpAt returns when the driver collected the order.
func (d *Delivery) PickedUpAt() *time.Time {
	return d.pickedUpAt
}

// InTransitAt returns when the driver headed to the customer.
func (d *Delivery) InTransitAt() *time.Time {
	return d.inTransitAt
}

// ArrivedAt returns when the driver reached the customer's address.
func (d *Delivery) ArrivedAt() *time.Time {
	return d.arrivedAt
}

// DeliveredAt returns when the order was handed over.
func (d *Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

// FailedAt returns when the delivery failed terminally.
func (d *Delivery) FailedAt() *time.Time {
	return d.failedAt
}

// CancelledAt returns when the delivery was called off.
func (d *Delivery) CancelledAt() *time.Time {
	return d.cancelledAt
}

// History returns the append-only transition records in order of occurrence.
func (d *Delivery) History() []StatusChange {
	return d.history
}

// CreatedAt returns when the delivery was created.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// AssignDriver assigns an approved, available driver to a Pending delivery.
// The profile checks fail as preconditions, distinct from the state check.
// The ETA assumes 30 km/h over the computed route distance plus a ten minute
// margin. The order-side driver reference and the driver's availability flag
// are updated in the same transaction at the application layer.
func (d *Delivery) AssignDriver(driver *user.Driver) error {
	if err := driver.Validate(); err != nil {
		return err
	}
	if !driver.IsApproved() {
		return errs.NewPreconditionFailedErrorWithCause(
			"driver profile must be approved",
			fmt.Errorf("driver %s is %s", driver.ID(), driver.ApprovalStatus()))
	}
	if !driver.IsAvailable() {
		return errs.NewPreconditionFailedErrorWithCause(
			"driver must be available",
			fmt.Errorf("driver %s is busy", driver.ID()))
	}

	newStatus, err := d.status.Assign()
	if err != nil {
		return err
	}

	distance, err := d.CalculateDistance()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	travel := time.Duration(distance.InexactFloat64() / averageSpeedKmh * float64(time.Hour))
	estimate := now.Add(travel + etaMargin)

	driverID := driver.ID()
	d.driverID = &driverID
	d.assignedAt = &now
	d.estimatedDeliveryTime = &estimate
	d.applyTransition(newStatus, "", &driverID)
	return nil
}

// StartPickup records that the driver is heading to the restaurant.
// Re-entry from PickingUp is allowed; the timestamp is stamped once.
func (d *Delivery) StartPickup() error {
	newStatus, err := d.status.StartPickup()
	if err != nil {
		return err
	}

	if d.pickupStartedAt == nil {
		now := time.Now().UTC()
		d.pickupStartedAt = &now
	}
	if d.status != newStatus {
		d.applyTransition(newStatus, "", d.driverID)
	}
	return nil
}

// ConfirmPickup records that the driver collected the order. The order's
// kitchen status moves to PickedUp in lockstep at the application layer.
func (d *Delivery) ConfirmPickup() error {
	newStatus, err := d.status.ConfirmPickup()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	d.pickedUpAt = &now
	d.applyTransition(newStatus, "", d.driverID)
	return nil
}

// StartTransit records that the driver is heading to the customer.
func (d *Delivery) StartTransit() error {
	newStatus, err := d.status.StartTransit()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	d.inTransitAt = &now
	d.applyTransition(newStatus, "", d.driverID)
	return nil
}

// MarkArrived records that the driver reached the customer's address.
func (d *Delivery) MarkArrived() error {
	newStatus, err := d.status.MarkArrived()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	d.arrivedAt = &now
	d.applyTransition(newStatus, "", d.driverID)
	return nil
}

// Complete records the proven handover. Requiring at least one proof
// artifact is enforced at the command boundary, not here. Statistics
// cascades and releasing the driver run in the same transaction at the
// application layer.
func (d *Delivery) Complete(proofPhotoURL, signature, notes string) error {
	newStatus, err := d.status.Complete()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	d.deliveredAt = &now
	d.proofPhotoURL = proofPhotoURL
	d.signature = signature
	d.deliveryNotes = notes
	d.applyTransition(newStatus, notes, d.driverID)
	return nil
}

// MarkFailed records one failed delivery attempt. Below the attempt budget
// the delivery stays in its current state so a retry is possible; at the
// budget it transitions terminally to Failed. The returned flag reports
// whether the terminal transition happened, which obliges the caller to
// force-cancel the order in the same transaction.
func (d *Delivery) MarkFailed(reason FailureReason, notes, photoURL string) (bool, error) {
	if err := reason.Validate(); err != nil {
		return false, err
	}
	if d.status.IsTerminal() {
		return false, errs.NewInvalidTransitionError(entityDelivery, d.status.String(), StatusFailed.String())
	}

	d.attempts++
	d.failureReason = reason
	d.failureNotes = notes
	d.failurePhotoURL = photoURL

	if d.attempts < d.maxAttempts {
		return false, nil
	}

	newStatus, err := d.status.Fail()
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	d.failedAt = &now
	d.applyTransition(newStatus, notes, d.driverID)
	return true, nil
}

// Cancel calls the delivery off from any non-terminal state. Releasing the
// driver runs in the same transaction at the application layer.
func (d *Delivery) Cancel(notes string) error {
	newStatus, err := d.status.Cancel()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	d.cancelledAt = &now
	d.applyTransition(newStatus, notes, d.driverID)
	return nil
}

// CalculateDistance computes the haversine distance between pickup and
// dropoff and stores it. With unchanged coordinates the result is identical
// on every call.
func (d *Delivery) CalculateDistance() (decimal.Decimal, error) {
	distance, err := d.pickup.DistanceKm(d.dropoff)
	if err != nil {
		return decimal.Zero, err
	}

	d.distanceKm = &distance
	return distance, nil
}

// IsDelayed reports whether the ETA has passed while the delivery is still
// in a non-terminal state.
func (d *Delivery) IsDelayed() bool {
	if d.estimatedDeliveryTime == nil || d.status.IsTerminal() {
		return false
	}
	return time.Now().UTC().After(*d.estimatedDeliveryTime)
}

func (d *Delivery) applyTransition(newStatus Status, notes string, actor *kernel.UUID) {
	d.status = newStatus
	d.history = append(d.history, NewStatusChange(newStatus, notes, actor))
}
