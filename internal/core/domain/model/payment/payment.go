package payment

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/services"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrPaymentIsNotConstructed is returned when a Payment instance was not
// created through NewPayment or RestorePayment.
var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

// DefaultCurrency is used when checkout does not name a currency.
const DefaultCurrency = "USD"

// Details carries the order amounts a new payment is created from, together
// with the restaurant's commission rate snapshotted at creation so later
// renegotiations never change a recorded split.
type Details struct {
	OrderID        kernel.UUID
	OrderNumber    string
	Method         order.PaymentMethod
	Amount         decimal.Decimal
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	Tip            decimal.Decimal
	CommissionRate decimal.Decimal
	Currency       string
}

// Payment is the aggregate root of money movement. An order may have several
// payment records (the original charge plus retried charges), each moving
// through its own state machine. Completing a payment marks the order paid;
// refunds accumulate against the completed amount and never exceed it.
//
// Payment maintains these invariants:
//   - refunded amount <= amount at all times
//   - the sum of child refund amounts equals the refunded amount
//   - platform fee + restaurant amount == subtotal, within rounding
//   - driver amount == delivery fee + tip
type Payment struct {
	id            kernel.UUID
	orderID       kernel.UUID
	orderNumber   string
	transactionID string

	status Status
	method order.PaymentMethod

	amount      decimal.Decimal
	subtotal    decimal.Decimal
	deliveryFee decimal.Decimal
	tip         decimal.Decimal
	currency    string

	commissionRate   decimal.Decimal
	platformFee      decimal.Decimal
	restaurantAmount decimal.Decimal
	driverAmount     decimal.Decimal

	refundedAmount decimal.Decimal
	refunds        []*Refund

	failureReason  FailureReason
	failureMessage string

	processedAt *time.Time
	completedAt *time.Time
	failedAt    *time.Time
	cancelledAt *time.Time
	refundedAt  *time.Time

	history   []StatusChange
	createdAt time.Time

	isConstructed bool
}

// NewPayment creates a Pending payment for an order with a generated
// transaction id. The three-way distribution is computed immediately from
// the commission-rate snapshot.
func NewPayment(details Details) (*Payment, error) {
	if details.Currency == "" {
		details.Currency = DefaultCurrency
	}
	if err := errors.Join(
		details.OrderID.Validate(),
		details.Method.Validate(),
	); err != nil {
		return nil, err
	}
	if details.OrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	if details.Amount.IsNegative() || details.Subtotal.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("amount %s and subtotal %s must not be negative", details.Amount, details.Subtotal))
	}

	now := time.Now().UTC()
	p := &Payment{
		id:             kernel.NewUUID(),
		orderID:        details.OrderID,
		orderNumber:    details.OrderNumber,
		transactionID:  generateTransactionID(now),
		status:         StatusPending,
		method:         details.Method,
		amount:         details.Amount,
		subtotal:       details.Subtotal,
		deliveryFee:    details.DeliveryFee,
		tip:            details.Tip,
		currency:       details.Currency,
		commissionRate: details.CommissionRate,
		refundedAmount: decimal.Zero,
		createdAt:      now,
		isConstructed:  true,
	}
	if err := p.RecalculateDistribution(); err != nil {
		return nil, err
	}
	p.history = append(p.history, NewStatusChange(StatusPending, "payment created", nil))

	return p, nil
}

// Snapshot carries every persisted field of a Payment for reconstruction.
type Snapshot struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	OrderNumber      string
	TransactionID    string
	Status           Status
	Method           order.PaymentMethod
	Amount           decimal.Decimal
	Subtotal         decimal.Decimal
	DeliveryFee      decimal.Decimal
	Tip              decimal.Decimal
	Currency         string
	CommissionRate   decimal.Decimal
	PlatformFee      decimal.Decimal
	RestaurantAmount decimal.Decimal
	DriverAmount     decimal.Decimal
	RefundedAmount   decimal.Decimal
	Refunds          []*Refund
	FailureReason    FailureReason
	FailureMessage   string
	ProcessedAt      *time.Time
	CompletedAt      *time.Time
	FailedAt         *time.Time
	CancelledAt      *time.Time
	RefundedAt       *time.Time
	History          []StatusChange
	CreatedAt        time.Time
}

// RestorePayment reconstructs a payment from persistence.
// It must only be called by repositories.
func RestorePayment(s Snapshot) *Payment {
	return &Payment{
		id:               s.ID,
		orderID:          s.OrderID,
		orderNumber:      s.OrderNumber,
		transactionID:    s.TransactionID,
		status:           s.Status,
		method:           s.Method,
		amount:           s.Amount,
		subtotal:         s.Subtotal,
		deliveryFee:      s.DeliveryFee,
		tip:              s.Tip,
		currency:         s.Currency,
		commissionRate:   s.CommissionRate,
		platformFee:      s.PlatformFee,
		restaurantAmount: s.RestaurantAmount,
		driverAmount:     s.DriverAmount,
		refundedAmount:   s.RefundedAmount,
		refunds:          s.Refunds,
		failureReason:    s.FailureReason,
		failureMessage:   s.FailureMessage,
		processedAt:      s.ProcessedAt,
		completedAt:      s.CompletedAt,
		failedAt:         s.FailedAt,
		cancelledAt:      s.CancelledAt,
		refundedAt:       s.RefundedAt,
		history:          s.History,
		createdAt:        s.CreatedAt,
		isConstructed:    true,
	}
}

// Validate ensures the Payment was created through a constructor.
func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() kernel.UUID {
	return p.id
}

// OrderID returns the paid order.
func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

// OrderNumber returns the customer-facing order number snapshot.
func (p *Payment) OrderNumber() string {
	return p.orderNumber
}

// TransactionID returns the gateway transaction reference.
func (p *Payment) TransactionID() string {
	return p.transactionID
}

// Status returns the current money-movement state.
func (p *Payment) Status() Status {
	return p.status
}

// Method returns how the customer chose to pay.
func (p *Payment) Method() order.PaymentMethod {
	return p.method
}

// Amount returns the charged amount, equal to the order total.
func (p *Payment) Amount() decimal.Decimal {
	return p.amount
}

// Subtotal returns the order's line subtotal the split is computed from.
func (p *Payment) Subtotal() decimal.Decimal {
	return p.subtotal
}

// DeliveryFee returns the fee component destined for the driver.
func (p *Payment) DeliveryFee() decimal.Decimal {
	return p.deliveryFee
}

// Tip returns the tip component destined for the driver.
func (p *Payment) Tip() decimal.Decimal {
	return p.tip
}

// Currency returns the ISO currency code.
func (p *Payment) Currency() string {
	return p.currency
}

// CommissionRate returns the commission percentage snapshot.
func (p *Payment) CommissionRate() decimal.Decimal {
	return p.commissionRate
}

// PlatformFee returns the platform's share of the subtotal.
func (p *Payment) PlatformFee() decimal.Decimal {
	return p.platformFee
}

// RestaurantAmount returns the restaurant's share of the subtotal.
func (p *Payment) RestaurantAmount() decimal.Decimal {
	return p.restaurantAmount
}

// DriverAmount returns delivery fee + tip.
func (p *Payment) DriverAmount() decimal.Decimal {
	return p.driverAmount
}

// RefundedAmount returns the accumulated reimbursements.
func (p *Payment) RefundedAmount() decimal.Decimal {
	return p.refundedAmount
}

// Refunds returns the child reimbursement records in order of occurrence.
func (p *Payment) Refunds() []*Refund {
	return p.refunds
}

// FailureReason returns the recorded failure code, empty if none.
func (p *Payment) FailureReason() FailureReason {
	return p.failureReason
}

// FailureMessage returns the gateway's failure message.
func (p *Payment) FailureMessage() string {
	return p.failureMessage
}

// ProcessedAt returns when the charge was handed to the gateway.
func (p *Payment) ProcessedAt() *time.Time {
	return p.processedAt
}

// CompletedAt returns when the money arrived.
func (p *Payment) CompletedAt() *time.Time {
	return p.completedAt
}

// FailedAt returns when the charge failed.
func (p *Payment) FailedAt() *time.Time {
	return p.failedAt
}

// CancelledAt returns when the charge was abandoned.
func (p *Payment) CancelledAt() *time.Time {
	return p.cancelledAt
}

// RefundedAt returns when the most recent refund was processed.
func (p *Payment) RefundedAt() *time.Time {
	return p.refundedAt
}

// History returns the append-only transition records in order of occurrence.
func (p *Payment) History() []StatusChange {
	return p.history
}

// CreatedAt returns when checkout initiated the charge.
func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

// MarkAsProcessing records that the charge was handed to the gateway.
func (p *Payment) MarkAsProcessing() error {
	newStatus, err := p.status.MarkAsProcessing()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.processedAt = &now
	p.applyTransition(newStatus, "", nil)
	return nil
}

// MarkAsCompleted records that the money arrived. Marking the order paid
// with this payment's transaction id happens in the same transaction at the
// application layer.
func (p *Payment) MarkAsCompleted() error {
	newStatus, err := p.status.MarkAsCompleted()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.completedAt = &now
	p.applyTransition(newStatus, "", nil)
	return nil
}

// MarkAsFailed records a declined or errored charge with the gateway's
// reason code and message.
func (p *Payment) MarkAsFailed(reason FailureReason, message string) error {
	if err := reason.Validate(); err != nil {
		return err
	}

	newStatus, err := p.status.MarkAsFailed()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.failedAt = &now
	p.failureReason = reason
	p.failureMessage = message
	p.applyTransition(newStatus, message, nil)
	return nil
}

// Cancel abandons the charge before completion.
func (p *Payment) Cancel(notes string) error {
	newStatus, err := p.status.Cancel()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.cancelledAt = &now
	p.applyTransition(newStatus, notes, nil)
	return nil
}

// Refund reimburses part or all of a completed payment. A nil amount
// refunds the full remaining balance. The over-refund guard fails as a
// precondition before anything is recorded. A full reimbursement moves the
// payment to Refunded, a partial one to PartiallyRefunded, and a child
// Refund record is created either way.
func (p *Payment) Refund(amount *decimal.Decimal, reason string, requestedBy *kernel.UUID) (*Refund, error) {
	if !p.status.IsRefundable() {
		return nil, errs.NewInvalidTransitionError(entityPayment, p.status.String(), StatusRefunded.String())
	}

	remaining := p.RemainingRefundableAmount()
	refundAmount := remaining
	if amount != nil {
		refundAmount = *amount
	}

	if !refundAmount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s is not greater than 0", refundAmount))
	}
	if refundAmount.GreaterThan(remaining) {
		return nil, errs.NewPreconditionFailedErrorWithCause(
			"refund exceeds the remaining balance",
			fmt.Errorf("%s requested, %s remaining of %s", refundAmount, remaining, p.amount))
	}

	refund := newRefund(p.id, refundAmount, reason, requestedBy)
	p.refunds = append(p.refunds, refund)
	p.refundedAmount = p.refundedAmount.Add(refundAmount)
	p.refundedAt = refund.processedAt

	newStatus := StatusPartiallyRefunded
	if p.refundedAmount.Equal(p.amount) {
		newStatus = StatusRefunded
	}
	p.applyTransition(newStatus, reason, requestedBy)

	return refund, nil
}

// RemainingRefundableAmount returns amount - refunded amount.
func (p *Payment) RemainingRefundableAmount() decimal.Decimal {
	return p.amount.Sub(p.refundedAmount)
}

// IsRefundable reports whether a refund can start from the current state.
func (p *Payment) IsRefundable() bool {
	return p.status.IsRefundable()
}

// RecalculateDistribution recomputes the three-way split from the stored
// amounts and commission-rate snapshot. It is idempotent and re-run
// whenever the underlying amounts change.
func (p *Payment) RecalculateDistribution() error {
	dist, err := services.CalculateDistribution(p.subtotal, p.deliveryFee, p.tip, p.commissionRate)
	if err != nil {
		return err
	}

	p.platformFee = dist.PlatformFee
	p.restaurantAmount = dist.RestaurantAmount
	p.driverAmount = dist.DriverAmount
	return nil
}

func (p *Payment) applyTransition(newStatus Status, notes string, actor *kernel.UUID) {
	p.status = newStatus
	p.history = append(p.history, NewStatusChange(newStatus, notes, actor))
}

// generateTransactionID builds the gateway reference: PAY, the creation
// time as yyyymmddhhmmss, and eight random hex digits uppercased.
func generateTransactionID(now time.Time) string {
	raw := kernel.NewUUID().Bytes()
	return "PAY" + now.Format("20060102150405") + strings.ToUpper(hex.EncodeToString(raw[:])[:8])
}
