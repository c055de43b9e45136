// Package paymentrepo persists the payment aggregate together with its
// refund records and status history.
package paymentrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
)

// PaymentDTO is the database row behind a payment aggregate.
type PaymentDTO struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	OrderID          string `gorm:"type:uuid;uniqueIndex"`
	OrderNumber      string
	TransactionID    string
	Status           string          `gorm:"index"`
	Method           string
	Amount           decimal.Decimal `gorm:"type:numeric"`
	Subtotal         decimal.Decimal `gorm:"type:numeric"`
	DeliveryFee      decimal.Decimal `gorm:"type:numeric"`
	Tip              decimal.Decimal `gorm:"type:numeric"`
	Currency         string
	CommissionRate   decimal.Decimal `gorm:"type:numeric"`
	PlatformFee      decimal.Decimal `gorm:"type:numeric"`
	RestaurantAmount decimal.Decimal `gorm:"type:numeric"`
	DriverAmount     decimal.Decimal `gorm:"type:numeric"`
	RefundedAmount   decimal.Decimal `gorm:"type:numeric"`
	FailureReason    string
	FailureMessage   string
	ProcessedAt      *time.Time
	CompletedAt      *time.Time
	FailedAt         *time.Time
	CancelledAt      *time.Time
	RefundedAt       *time.Time
	CreatedAt        time.Time `gorm:"index"`
}

// TableName maps the DTO to the "payments" table.
func (PaymentDTO) TableName() string {
	return "payments"
}

// RefundDTO is one immutable reimbursement record.
type RefundDTO struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	PaymentID    string `gorm:"type:uuid;index"`
	RefundNumber string
	Amount       decimal.Decimal `gorm:"type:numeric"`
	Reason       string
	Status       string
	RequestedBy  *string `gorm:"type:uuid"`
	ProcessedAt  *time.Time
	CreatedAt    time.Time
}

// TableName maps the DTO to the "refunds" table.
func (RefundDTO) TableName() string {
	return "refunds"
}

// StatusChangeDTO is one append-only audit record of a payment transition.
type StatusChangeDTO struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	PaymentID string `gorm:"type:uuid;index"`
	Status    string
	Notes     string
	ChangedBy *string `gorm:"type:uuid"`
	CreatedAt time.Time
}

// TableName maps the DTO to the "payment_status_history" table.
func (StatusChangeDTO) TableName() string {
	return "payment_status_history"
}

// fromDomain converts a payment aggregate to its rows.
func fromDomain(aggregate *payment.Payment) (PaymentDTO, []RefundDTO, []StatusChangeDTO) {
	dto := PaymentDTO{
		ID:               aggregate.ID().String(),
		OrderID:          aggregate.OrderID().String(),
		OrderNumber:      aggregate.OrderNumber(),
		TransactionID:    aggregate.TransactionID(),
		Status:           aggregate.Status().String(),
		Method:           string(aggregate.Method()),
		Amount:           aggregate.Amount(),
		Subtotal:         aggregate.Subtotal(),
		DeliveryFee:      aggregate.DeliveryFee(),
		Tip:              aggregate.Tip(),
		Currency:         aggregate.Currency(),
		CommissionRate:   aggregate.CommissionRate(),
		PlatformFee:      aggregate.PlatformFee(),
		RestaurantAmount: aggregate.RestaurantAmount(),
		DriverAmount:     aggregate.DriverAmount(),
		RefundedAmount:   aggregate.RefundedAmount(),
		FailureReason:    string(aggregate.FailureReason()),
		FailureMessage:   aggregate.FailureMessage(),
		ProcessedAt:      aggregate.ProcessedAt(),
		CompletedAt:      aggregate.CompletedAt(),
		FailedAt:         aggregate.FailedAt(),
		CancelledAt:      aggregate.CancelledAt(),
		RefundedAt:       aggregate.RefundedAt(),
		CreatedAt:        aggregate.CreatedAt(),
	}

	refunds := make([]RefundDTO, 0, len(aggregate.Refunds()))
	for _, refund := range aggregate.Refunds() {
		refunds = append(refunds, RefundDTO{
			ID:           refund.ID().String(),
			PaymentID:    dto.ID,
			RefundNumber: refund.RefundNumber(),
			Amount:       refund.Amount(),
			Reason:       refund.Reason(),
			Status:       string(refund.Status()),
			RequestedBy:  uuidPtrToString(refund.RequestedBy()),
			ProcessedAt:  refund.ProcessedAt(),
			CreatedAt:    refund.CreatedAt(),
		})
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		history = append(history, StatusChangeDTO{
			ID:        change.ID().String(),
			PaymentID: dto.ID,
			Status:    change.Status().String(),
			Notes:     change.Notes(),
			ChangedBy: uuidPtrToString(change.ChangedBy()),
			CreatedAt: change.CreatedAt(),
		})
	}

	return dto, refunds, history
}

// toDomain reconstructs a payment aggregate from its rows.
func toDomain(dto PaymentDTO, refundDTOs []RefundDTO, historyDTOs []StatusChangeDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromString(dto.OrderID)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	refunds := make([]*payment.Refund, 0, len(refundDTOs))
	for _, refundDTO := range refundDTOs {
		refund, refundErr := refundToDomain(refundDTO)
		if refundErr != nil {
			return nil, refundErr
		}
		refunds = append(refunds, refund)
	}

	history := make([]payment.StatusChange, 0, len(historyDTOs))
	for _, changeDTO := range historyDTOs {
		change, changeErr := historyToDomain(changeDTO)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return payment.RestorePayment(payment.Snapshot{
		ID:               id,
		OrderID:          orderID,
		OrderNumber:      dto.OrderNumber,
		TransactionID:    dto.TransactionID,
		Status:           status,
		Method:           order.PaymentMethod(dto.Method),
		Amount:           dto.Amount,
		Subtotal:         dto.Subtotal,
		DeliveryFee:      dto.DeliveryFee,
		Tip:              dto.Tip,
		Currency:         dto.Currency,
		CommissionRate:   dto.CommissionRate,
		PlatformFee:      dto.PlatformFee,
		RestaurantAmount: dto.RestaurantAmount,
		DriverAmount:     dto.DriverAmount,
		RefundedAmount:   dto.RefundedAmount,
		Refunds:          refunds,
		FailureReason:    payment.FailureReason(dto.FailureReason),
		FailureMessage:   dto.FailureMessage,
		ProcessedAt:      dto.ProcessedAt,
		CompletedAt:      dto.CompletedAt,
		FailedAt:         dto.FailedAt,
		CancelledAt:      dto.CancelledAt,
		RefundedAt:       dto.RefundedAt,
		History:          history,
		CreatedAt:        dto.CreatedAt,
	}), nil
}

func refundToDomain(dto RefundDTO) (*payment.Refund, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	paymentID, err := kernel.UUIDFromString(dto.PaymentID)
	if err != nil {
		return nil, err
	}
	requestedBy, err := stringPtrToUUID(dto.RequestedBy)
	if err != nil {
		return nil, err
	}

	return payment.RestoreRefund(payment.RefundSnapshot{
		ID:           id,
		RefundNumber: dto.RefundNumber,
		PaymentID:    paymentID,
		Amount:       dto.Amount,
		Reason:       dto.Reason,
		Status:       payment.RefundStatus(dto.Status),
		RequestedBy:  requestedBy,
		ProcessedAt:  dto.ProcessedAt,
		CreatedAt:    dto.CreatedAt,
	}), nil
}

func historyToDomain(dto StatusChangeDTO) (payment.StatusChange, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return payment.StatusChange{}, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return payment.StatusChange{}, err
	}
	changedBy, err := stringPtrToUUID(dto.ChangedBy)
	if err != nil {
		return payment.StatusChange{}, err
	}

	return payment.RestoreStatusChange(id, status, dto.Notes, changedBy, dto.CreatedAt), nil
}

func uuidPtrToString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func stringPtrToUUID(s *string) (*kernel.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
