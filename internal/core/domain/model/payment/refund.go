package payment

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// RefundStatus is the processing state of one reimbursement.
type RefundStatus string

const (
	// RefundPending means the reimbursement was requested but not sent.
	RefundPending RefundStatus = "PENDING"
	// RefundProcessing means the reimbursement was handed to the gateway.
	RefundProcessing RefundStatus = "PROCESSING"
	// RefundCompleted means the money went back to the customer.
	RefundCompleted RefundStatus = "COMPLETED"
	// RefundFailed means the reimbursement could not be sent.
	RefundFailed RefundStatus = "FAILED"
)

// Validate checks that the refund status is one of the enumerated codes.
func (s RefundStatus) Validate() error {
	switch s {
	case RefundPending, RefundProcessing, RefundCompleted, RefundFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"refundStatus", fmt.Errorf("%q is not a valid refund status", string(s)))
	}
}

// Refund is an immutable record of one reimbursement event. Refunds are
// created only through Payment.Refund, never directly.
type Refund struct {
	id           kernel.UUID
	refundNumber string
	paymentID    kernel.UUID
	amount       decimal.Decimal
	reason       string
	status       RefundStatus
	requestedBy  *kernel.UUID
	processedAt  *time.Time
	createdAt    time.Time
}

// newRefund records one processed reimbursement of the given amount.
func newRefund(paymentID kernel.UUID, amount decimal.Decimal, reason string, requestedBy *kernel.UUID) *Refund {
	now := time.Now().UTC()
	return &Refund{
		id:           kernel.NewUUID(),
		refundNumber: generateRefundNumber(now),
		paymentID:    paymentID,
		amount:       amount,
		reason:       reason,
		status:       RefundCompleted,
		requestedBy:  requestedBy,
		processedAt:  &now,
		createdAt:    now,
	}
}

// RefundSnapshot carries every persisted field of a Refund.
type RefundSnapshot struct {
	ID           kernel.UUID
	RefundNumber string
	PaymentID    kernel.UUID
	Amount       decimal.Decimal
	Reason       string
	Status       RefundStatus
	RequestedBy  *kernel.UUID
	ProcessedAt  *time.Time
	CreatedAt    time.Time
}

// RestoreRefund reconstructs a refund from persistence.
func RestoreRefund(s RefundSnapshot) *Refund {
	return &Refund{
		id:           s.ID,
		refundNumber: s.RefundNumber,
		paymentID:    s.PaymentID,
		amount:       s.Amount,
		reason:       s.Reason,
		status:       s.Status,
		requestedBy:  s.RequestedBy,
		processedAt:  s.ProcessedAt,
		createdAt:    s.CreatedAt,
	}
}

// ID returns the refund's unique identifier.
func (r *Refund) ID() kernel.UUID {
	return r.id
}

// RefundNumber returns the customer-facing refund reference.
func (r *Refund) RefundNumber() string {
	return r.refundNumber
}

// PaymentID returns the refunded payment.
func (r *Refund) PaymentID() kernel.UUID {
	return r.paymentID
}

// Amount returns the reimbursed amount.
func (r *Refund) Amount() decimal.Decimal {
	return r.amount
}

// Reason returns the free-text reason for the reimbursement.
func (r *Refund) Reason() string {
	return r.reason
}

// Status returns the reimbursement processing state.
func (r *Refund) Status() RefundStatus {
	return r.status
}

// RequestedBy returns the actor who requested the refund, or nil when
// system-initiated.
func (r *Refund) RequestedBy() *kernel.UUID {
	return r.requestedBy
}

// ProcessedAt returns when the money moved, or nil while pending.
func (r *Refund) ProcessedAt() *time.Time {
	return r.processedAt
}

// CreatedAt returns when the refund was recorded.
func (r *Refund) CreatedAt() time.Time {
	return r.createdAt
}

// generateRefundNumber builds the refund reference: REF, the creation time
// as yyyymmddhhmmss, and six random hex digits uppercased.
func generateRefundNumber(now time.Time) string {
	raw := kernel.NewUUID().Bytes()
	return "REF" + now.Format("20060102150405") + strings.ToUpper(hex.EncodeToString(raw[:])[:6])
}
