package order

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// orderNumberPrefix is prepended to every generated order number and is part
// of the wire contract.
const orderNumberPrefix = "QG"

// Charges groups the non-line monetary components of an order. All values
// must be non-negative; the discount is stored positive and subtracted.
type Charges struct {
	DeliveryFee decimal.Decimal
	ServiceFee  decimal.Decimal
	Tax         decimal.Decimal
	Tip         decimal.Decimal
	Discount    decimal.Decimal
}

// Order is the aggregate root of the purchase lifecycle. It captures what
// was bought, from whom and for whom, and moves through the kitchen workflow
// via guarded transitions. Every successful transition stamps its timestamp
// exactly once and appends an immutable StatusChange record.
//
// Order maintains these invariants:
//   - total == subtotal + delivery fee + service fee + tax + tip - discount
//     after any line mutation
//   - per-transition timestamps are set exactly once and never overwritten
//   - the status history is a prefix of the legal transition path
//
// Order can only be created through NewOrder and reconstructed through
// RestoreOrder.
type Order struct {
	id           kernel.UUID
	orderNumber  string
	customerID   kernel.UUID
	restaurantID kernel.UUID
	driverID     *kernel.UUID
	deliveryID   *kernel.UUID

	status        Status
	paymentMethod PaymentMethod

	deliveryAddress     string
	dropoff             kernel.GeoPoint
	specialInstructions string

	lines   []*Line
	history []StatusChange

	subtotal decimal.Decimal
	charges  Charges
	total    decimal.Decimal

	isPaid        bool
	paymentDate   *time.Time
	transactionID string

	cancellationReason CancellationReason
	cancellationNotes  string

	estimatedDeliveryTime *time.Time
	confirmedAt           *time.Time
	preparingAt           *time.Time
	readyAt               *time.Time
	pickedUpAt            *time.Time
	deliveredAt           *time.Time
	cancelledAt           *time.Time

	rated     bool
	createdAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with a generated order
// number and an initial history record attributed to the customer.
// Lines are added afterwards via AddLine, which recomputes totals.
func NewOrder(
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	paymentMethod PaymentMethod,
	deliveryAddress string,
	dropoff kernel.GeoPoint,
	charges Charges,
	specialInstructions string,
) (*Order, error) {
	if err := errors.Join(
		customerID.Validate(),
		restaurantID.Validate(),
		paymentMethod.Validate(),
		dropoff.Validate(),
		validateCharges(charges),
	); err != nil {
		return nil, err
	}
	if deliveryAddress == "" {
		return nil, errs.NewValueIsRequiredError("deliveryAddress")
	}

	id := kernel.NewUUID()
	order := &Order{
		id:                  id,
		orderNumber:         generateOrderNumber(),
		customerID:          customerID,
		restaurantID:        restaurantID,
		status:              StatusPending,
		paymentMethod:       paymentMethod,
		deliveryAddress:     deliveryAddress,
		dropoff:             dropoff,
		specialInstructions: specialInstructions,
		subtotal:            decimal.Zero,
		charges:             charges,
		total:               decimal.Zero,
		createdAt:           time.Now().UTC(),
		isConstructed:       true,
	}
	order.recalculateTotals()
	order.history = append(order.history, NewStatusChange(StatusPending, "order placed", &customerID))

	return order, nil
}

// Snapshot carries every persisted field of an Order for reconstruction.
type Snapshot struct {
	ID                    kernel.UUID
	OrderNumber           string
	CustomerID            kernel.UUID
	RestaurantID          kernel.UUID
	DriverID              *kernel.UUID
	DeliveryID            *kernel.UUID
	Status                Status
	PaymentMethod         PaymentMethod
	DeliveryAddress       string
	Dropoff               kernel.GeoPoint
	SpecialInstructions   string
	Lines                 []*Line
	History               []StatusChange
	Subtotal              decimal.Decimal
	Charges               Charges
	Total                 decimal.Decimal
	IsPaid                bool
	PaymentDate           *time.Time
	TransactionID         string
	CancellationReason    CancellationReason
	CancellationNotes     string
	EstimatedDeliveryTime *time.Time
	ConfirmedAt           *time.Time
	PreparingAt           *time.Time
	ReadyAt               *time.Time
	PickedUpAt            *time.Time
	DeliveredAt           *time.Time
	CancelledAt           *time.Time
	Rated                 bool
	CreatedAt             time.Time
}

// RestoreOrder reconstructs an Order from persistence without re-running
// checkout validation. It must only be called by repositories.
func RestoreOrder(s Snapshot) *Order {
	return &Order{
		id:                    s.ID,
		orderNumber:           s.OrderNumber,
		customerID:            s.CustomerID,
		restaurantID:          s.RestaurantID,
		driverID:              s.DriverID,
		deliveryID:            s.DeliveryID,
		status:                s.Status,
		paymentMethod:         s.PaymentMethod,
		deliveryAddress:       s.DeliveryAddress,
		dropoff:               s.Dropoff,
		specialInstructions:   s.SpecialInstructions,
		lines:                 s.Lines,
		history:               s.History,
		subtotal:              s.Subtotal,
		charges:               s.Charges,
		total:                 s.Total,
		isPaid:                s.IsPaid,
		paymentDate:           s.PaymentDate,
		transactionID:         s.TransactionID,
		cancellationReason:    s.CancellationReason,
		cancellationNotes:     s.CancellationNotes,
		estimatedDeliveryTime: s.EstimatedDeliveryTime,
		confirmedAt:           s.ConfirmedAt,
		preparingAt:           s.PreparingAt,
		readyAt:               s.ReadyAt,
		pickedUpAt:            s.PickedUpAt,
		deliveredAt:           s.DeliveredAt,
		cancelledAt:           s.CancelledAt,
		rated:                 s.Rated,
		createdAt:             s.CreatedAt,
		isConstructed:         true,
	}
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the customer-facing order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerID returns the ordering customer.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the restaurant preparing the order.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// DriverID returns the driver fulfilling the order, or nil before assignment.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// DeliveryID returns the fulfillment record created for the order, or nil
// while the order is still in the kitchen.
func (o *Order) DeliveryID() *kernel.UUID {
	return o.deliveryID
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// PaymentMethod returns how the customer chose to pay.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// DeliveryAddress returns the customer's address snapshot.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Dropoff returns the delivery destination coordinates.
func (o *Order) Dropoff() kernel.GeoPoint {
	return o.dropoff
}

// SpecialInstructions returns the customer's free-text instructions.
func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

// Lines returns the purchased items.
func (o *Order) Lines() []*Line {
	return o.lines
}

// History returns the append-only transition records in order of occurrence.
func (o *Order) History() []StatusChange {
	return o.history
}

// Subtotal returns the sum of all line subtotals.
func (o *Order) Subtotal() decimal.Decimal {
	return o.subtotal
}

// Charges returns the non-line monetary components.
func (o *Order) Charges() Charges {
	return o.charges
}

// DeliveryFee returns the delivery fee charged to the customer.
func (o *Order) DeliveryFee() decimal.Decimal {
	return o.charges.DeliveryFee
}

// Tip returns the tip destined for the driver.
func (o *Order) Tip() decimal.Decimal {
	return o.charges.Tip
}

// Total returns subtotal + delivery fee + service fee + tax + tip - discount.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// IsPaid reports whether a payment completed for this order.
func (o *Order) IsPaid() bool {
	return o.isPaid
}

// PaymentDate returns when the payment completed, or nil if unpaid.
func (o *Order) PaymentDate() *time.Time {
	return o.paymentDate
}

// TransactionID returns the completing payment's transaction id.
func (o *Order) TransactionID() string {
	return o.transactionID
}

// CancellationReason returns the recorded cancellation code, empty unless
// the order is cancelled.
func (o *Order) CancellationReason() CancellationReason {
	return o.cancellationReason
}

// CancellationNotes returns the free-text cancellation notes.
func (o *Order) CancellationNotes() string {
	return o.cancellationNotes
}

// EstimatedDeliveryTime returns the promised delivery time, or nil before
// confirmation.
func (o *Order) EstimatedDeliveryTime() *time.Time {
	return o.estimatedDeliveryTime
}

// ConfirmedAt returns when the restaurant confirmed the order.
func (o *Order) ConfirmedAt() *time.Time {
	return o.confirmedAt
}

// PreparingAt returns when preparation started.
func (o *Order) PreparingAt() *time.Time {
	return o.preparingAt
}

// ReadyAt returns when the order became ready for pickup.
func (o *Order) ReadyAt() *time.Time {
	return o.readyAt
}

// PickedUpAt returns when the driver collected the order.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

// DeliveredAt returns when the order reached the customer.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// CancelledAt returns when the order was cancelled.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// IsRated reports whether the customer already rated the order.
func (o *Order) IsRated() bool {
	return o.rated
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AddLine appends a purchased item and recomputes totals. Lines can only be
// added while the order is still Pending.
func (o *Order) AddLine(line *Line) error {
	if err := line.Validate(); err != nil {
		return err
	}
	if o.status != StatusPending {
		return errs.NewPreconditionFailedErrorWithCause(
			"lines can only be added to a pending order",
			fmt.Errorf("order is %s", o.status))
	}

	o.lines = append(o.lines, line)
	o.recalculateTotals()
	return nil
}

// Confirm moves the order from Pending to Confirmed. The estimated delivery
// time is computed as now + the restaurant's preparation time + its maximum
// delivery time.
func (o *Order) Confirm(actor *kernel.UUID, preparationTime, maxDeliveryTime time.Duration) error {
	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	estimate := now.Add(preparationTime + maxDeliveryTime)
	o.confirmedAt = &now
	o.estimatedDeliveryTime = &estimate
	o.applyTransition(newStatus, "", actor)
	return nil
}

// StartPreparing moves the order from Confirmed to Preparing.
func (o *Order) StartPreparing(actor *kernel.UUID) error {
	newStatus, err := o.status.StartPreparing()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.preparingAt = &now
	o.applyTransition(newStatus, "", actor)
	return nil
}

// MarkReady moves the order from Preparing to Ready.
func (o *Order) MarkReady(actor *kernel.UUID) error {
	newStatus, err := o.status.MarkReady()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.readyAt = &now
	o.applyTransition(newStatus, "", actor)
	return nil
}

// AssignDriver records the driver accepting the order's delivery. This is a
/// reference update, not a transition: the status moves only when the driver
// actually collects the order via MarkPickedUp.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	o.driverID = &driverID
	return nil
}

// MarkPickedUp moves the order from Ready to PickedUp and records the
// collecting driver on the order.
func (o *Order) MarkPickedUp(driverID kernel.UUID, actor *kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.MarkPickedUp()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.pickedUpAt = &now
	o.driverID = &driverID
	o.applyTransition(newStatus, "", actor)
	return nil
}

// MarkInTransit moves the order from PickedUp to InTransit.
func (o *Order) MarkInTransit(actor *kernel.UUID) error {
	newStatus, err := o.status.MarkInTransit()
	if err != nil {
		return err
	}

	o.applyTransition(newStatus, "", actor)
	return nil
}

// MarkDelivered moves the order from InTransit to Delivered. Statistics
// cascades to the restaurant, customer, and driver run in the same
// transaction at the application layer.
func (o *Order) MarkDelivered(actor *kernel.UUID) error {
	newStatus, err := o.status.MarkDelivered()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.deliveredAt = &now
	o.applyTransition(newStatus, "", actor)
	return nil
}

// Cancel moves the order to Cancelled through the customer-facing window,
// legal from Pending and Confirmed only. Stock restoration for tracked lines
// runs in the same transaction at the application layer.
func (o *Order) Cancel(reason CancellationReason, notes string, actor *kernel.UUID) error {
	if err := reason.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.markCancelled(newStatus, reason, notes, actor)
	return nil
}

// CancelDueToFailedDelivery force-cancels the order after its delivery
// failed terminally. It bypasses the customer cancellation window and
// records the driver-unavailable reason, matching the wire contract.
func (o *Order) CancelDueToFailedDelivery(notes string) error {
	newStatus, err := o.status.ForceCancel()
	if err != nil {
		return err
	}

	o.markCancelled(newStatus, CancelledDriverUnavailable, notes, nil)
	return nil
}

// MarkPaid records the completing payment on the order. It does not change
// the lifecycle status.
func (o *Order) MarkPaid(transactionID string, paidAt time.Time) error {
	if transactionID == "" {
		return errs.NewValueIsRequiredError("transactionID")
	}

	o.isPaid = true
	o.paymentDate = &paidAt
	o.transactionID = transactionID
	return nil
}

// AttachDelivery links the fulfillment record created for the order.
// An order has at most one delivery.
func (o *Order) AttachDelivery(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	if o.deliveryID != nil {
		return errs.NewPreconditionFailedError("order already has a delivery")
	}

	o.deliveryID = &deliveryID
	return nil
}

// MarkRated records that the customer rated the order. Legal once, and only
// after delivery.
func (o *Order) MarkRated() error {
	if !o.CanBeRated() {
		return errs.NewPreconditionFailedErrorWithCause(
			"only a delivered, unrated order can be rated",
			fmt.Errorf("order is %s, rated=%t", o.status, o.rated))
	}

	o.rated = true
	return nil
}

// CanBeCancelled reports whether the customer cancellation window is open.
func (o *Order) CanBeCancelled() bool {
	return o.status.CanBeCancelled()
}

// CanBeRated reports whether the order is delivered and not yet rated.
func (o *Order) CanBeRated() bool {
	return o.status == StatusDelivered && !o.rated
}

// IsDelayed reports whether the promised delivery time has passed while the
// order is still in a non-terminal state.
func (o *Order) IsDelayed() bool {
	if o.estimatedDeliveryTime == nil || o.status.IsTerminal() {
		return false
	}
	return time.Now().UTC().After(*o.estimatedDeliveryTime)
}

func (o *Order) applyTransition(newStatus Status, notes string, actor *kernel.UUID) {
	o.status = newStatus
	o.history = append(o.history, NewStatusChange(newStatus, notes, actor))
}

func (o *Order) markCancelled(newStatus Status, reason CancellationReason, notes string, actor *kernel.UUID) {
	now := time.Now().UTC()
	o.cancelledAt = &now
	o.cancellationReason = reason
	o.cancellationNotes = notes
	o.applyTransition(newStatus, notes, actor)
}

// recalculateTotals restores the total invariant after a line mutation.
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range o.lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	o.subtotal = subtotal
	o.total = subtotal.
		Add(o.charges.DeliveryFee).
		Add(o.charges.ServiceFee).
		Add(o.charges.Tax).
		Add(o.charges.Tip).
		Sub(o.charges.Discount)
}

func validateCharges(c Charges) error {
	for _, field := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"deliveryFee", c.DeliveryFee},
		{"serviceFee", c.ServiceFee},
		{"tax", c.Tax},
		{"tip", c.Tip},
		{"discount", c.Discount},
	} {
		if field.value.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause(
				field.name, fmt.Errorf("%s is negative", field.value))
		}
	}
	return nil
}

// generateOrderNumber builds the customer-facing order number: the QG prefix
// followed by the first ten hex digits of a fresh random UUID, uppercased.
func generateOrderNumber() string {
	raw := kernel.NewUUID().Bytes()
	return orderNumberPrefix + strings.ToUpper(hex.EncodeToString(raw[:])[:10])
}
