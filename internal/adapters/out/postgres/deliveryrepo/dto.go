// Package deliveryrepo persists the delivery aggregate together with its
// status history.
package deliveryrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
)

// DeliveryDTO is the database row behind a delivery aggregate.
type DeliveryDTO struct {
	ID                    string  `gorm:"type:uuid;primaryKey"`
	OrderID               string  `gorm:"type:uuid;uniqueIndex"`
	OrderNumber           string
	DriverID              *string `gorm:"type:uuid;index"`
	Status                string  `gorm:"index"`
	Priority              string
	PickupAddress         string
	Pickup                GeoPointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	DeliveryAddress       string
	Dropoff               GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	CustomerName          string
	CustomerPhone         string
	DistanceKm            decimal.NullDecimal `gorm:"type:numeric"`
	DeliveryFee           decimal.Decimal     `gorm:"type:numeric"`
	Tip                   decimal.Decimal     `gorm:"type:numeric"`
	DriverEarnings        decimal.Decimal     `gorm:"type:numeric"`
	Attempts              int
	MaxAttempts           int
	FailureReason         string
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
	CreatedAt             time.Time
}

// TableName maps the DTO to the "deliveries" table.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// GeoPointDTO is an embedded coordinate pair.
type GeoPointDTO struct {
	Latitude  float64
	Longitude float64
}

// StatusChangeDTO is one append-only audit record of a delivery transition.
type StatusChangeDTO struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	DeliveryID string `gorm:"type:uuid;index"`
	Status     string
	Notes      string
	ChangedBy  *string `gorm:"type:uuid"`
	CreatedAt  time.Time
}

// TableName maps the DTO to the "delivery_status_history" table.
func (StatusChangeDTO) TableName() string {
	return "delivery_status_history"
}

// fromDomain converts a delivery aggregate to its rows.
func fromDomain(aggregate *delivery.Delivery) (DeliveryDTO, []StatusChangeDTO) {
	var distance decimal.NullDecimal
	if km := aggregate.DistanceKm(); km != nil {
		distance = decimal.NullDecimal{Decimal: *km, Valid: true}
	}

	dto := DeliveryDTO{
		ID:          aggregate.ID().String(),
		OrderID:     aggregate.OrderID().String(),
		OrderNumber: aggregate.OrderNumber(),
		DriverID:    uuidPtrToString(aggregate.DriverID()),
		Status:      aggregate.Status().String(),
		Priority:    string(aggregate.Priority()),
		Pickup: GeoPointDTO{
			Latitude:  aggregate.Pickup().Latitude(),
			Longitude: aggregate.Pickup().Longitude(),
		},
		Dropoff: GeoPointDTO{
			Latitude:  aggregate.Dropoff().Latitude(),
			Longitude: aggregate.Dropoff().Longitude(),
		},
		PickupAddress:         aggregate.PickupAddress(),
		DeliveryAddress:       aggregate.DeliveryAddress(),
		CustomerName:          aggregate.CustomerName(),
		CustomerPhone:         aggregate.CustomerPhone(),
		DistanceKm:            distance,
		DeliveryFee:           aggregate.DeliveryFee(),
		Tip:                   aggregate.Tip(),
		DriverEarnings:        aggregate.DriverEarnings(),
		Attempts:              aggregate.Attempts(),
		MaxAttempts:           aggregate.MaxAttempts(),
		FailureReason:         string(aggregate.FailureReason()),
		FailureNotes:          aggregate.FailureNotes(),
		FailurePhotoURL:       aggregate.FailurePhotoURL(),
		ProofPhotoURL:         aggregate.ProofPhotoURL(),
		Signature:             aggregate.Signature(),
		DeliveryNotes:         aggregate.DeliveryNotes(),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		AssignedAt:            aggregate.AssignedAt(),
		PickupStartedAt:       aggregate.PickupStartedAt(),
		PickedUpAt:            aggregate.PickedUpAt(),
		InTransitAt:           aggregate.InTransitAt(),
		ArrivedAt:             aggregate.ArrivedAt(),
		DeliveredAt:           aggregate.DeliveredAt(),
		FailedAt:              aggregate.FailedAt(),
		CancelledAt:           aggregate.CancelledAt(),
		CreatedAt:             aggregate.CreatedAt(),
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		history = append(history, StatusChangeDTO{
			ID:         change.ID().String(),
			DeliveryID: dto.ID,
			Status:     change.Status().String(),
			Notes:      change.Notes(),
			ChangedBy:  uuidPtrToString(change.ChangedBy()),
			CreatedAt:  change.CreatedAt(),
		})
	}

	return dto, history
}

// toDomain reconstructs a delivery aggregate from its rows.
func toDomain(dto DeliveryDTO, historyDTOs []StatusChangeDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromString(dto.OrderID)
	if err != nil {
		return nil, err
	}
	driverID, err := stringPtrToUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pickup, err := kernel.NewGeoPoint(dto.Pickup.Latitude, dto.Pickup.Longitude)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Latitude, dto.Dropoff.Longitude)
	if err != nil {
		return nil, err
	}

	var distance *decimal.Decimal
	if dto.DistanceKm.Valid {
		distance = &dto.DistanceKm.Decimal
	}

	history := make([]delivery.StatusChange, 0, len(historyDTOs))
	for _, changeDTO := range historyDTOs {
		change, changeErr := historyToDomain(changeDTO)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:                    id,
		OrderID:               orderID,
		OrderNumber:           dto.OrderNumber,
		DriverID:              driverID,
		Status:                status,
		Priority:              delivery.Priority(dto.Priority),
		PickupAddress:         dto.PickupAddress,
		Pickup:                pickup,
		DeliveryAddress:       dto.DeliveryAddress,
		Dropoff:               dropoff,
		CustomerName:          dto.CustomerName,
		CustomerPhone:         dto.CustomerPhone,
		DistanceKm:            distance,
		DeliveryFee:           dto.DeliveryFee,
		Tip:                   dto.Tip,
		DriverEarnings:        dto.DriverEarnings,
		Attempts:              dto.Attempts,
		MaxAttempts:           dto.MaxAttempts,
		FailureReason:         delivery.FailureReason(dto.FailureReason),
		FailureNotes:          dto.FailureNotes,
		FailurePhotoURL:       dto.FailurePhotoURL,
		ProofPhotoURL:         dto.ProofPhotoURL,
		Signature:             dto.Signature,
		DeliveryNotes:         dto.DeliveryNotes,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime,
		AssignedAt:            dto.AssignedAt,
		PickupStartedAt:       dto.PickupStartedAt,
		PickedUpAt:            dto.PickedUpAt,
		InTransitAt:           dto.InTransitAt,
		ArrivedAt:             dto.ArrivedAt,
		DeliveredAt:           dto.DeliveredAt,
		FailedAt:              dto.FailedAt,
		CancelledAt:           dto.CancelledAt,
		History:               history,
		CreatedAt:             dto.CreatedAt,
	}), nil
}

func historyToDomain(dto StatusChangeDTO) (delivery.StatusChange, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return delivery.StatusChange{}, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return delivery.StatusChange{}, err
	}
	changedBy, err := stringPtrToUUID(dto.ChangedBy)
	if err != nil {
		return delivery.StatusChange{}, err
	}

	return delivery.RestoreStatusChange(id, status, dto.Notes, changedBy, dto.CreatedAt), nil
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
