// Package orderrepo persists the order aggregate. The order row, its lines,
// and its status history are written and restored together so the aggregate
// always round-trips as a single unit.
package orderrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
)

// OrderDTO is the database row behind an order aggregate.
type OrderDTO struct {
	ID                    string  `gorm:"type:uuid;primaryKey"`
	OrderNumber           string  `gorm:"uniqueIndex"`
	CustomerID            string  `gorm:"type:uuid;index"`
	RestaurantID          string  `gorm:"type:uuid;index"`
	DriverID              *string `gorm:"type:uuid"`
	DeliveryID            *string `gorm:"type:uuid"`
	Status                string  `gorm:"index"`
	PaymentMethod         string
	DeliveryAddress       string
	Dropoff               GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	SpecialInstructions   string
	Subtotal              decimal.Decimal `gorm:"type:numeric"`
	DeliveryFee           decimal.Decimal `gorm:"type:numeric"`
	ServiceFee            decimal.Decimal `gorm:"type:numeric"`
	Tax                   decimal.Decimal `gorm:"type:numeric"`
	Tip                   decimal.Decimal `gorm:"type:numeric"`
	Discount              decimal.Decimal `gorm:"type:numeric"`
	Total                 decimal.Decimal `gorm:"type:numeric"`
	IsPaid                bool
	PaymentDate           *time.Time
	TransactionID         string
	CancellationReason    string
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

// TableName maps the DTO to the "orders" table.
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoPointDTO is an embedded coordinate pair.
type GeoPointDTO struct {
	Latitude  float64
	Longitude float64
}

// LineDTO is the database row behind one order line. Lines are immutable
// after checkout; option and extra snapshots are stored as JSON.
type LineDTO struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	OrderID        string `gorm:"type:uuid;index"`
	ProductID      string `gorm:"type:uuid"`
	Name           string
	Description    string
	ImageURL       string
	UnitPrice      decimal.Decimal `gorm:"type:numeric"`
	Quantity       int
	Subtotal       decimal.Decimal `gorm:"type:numeric"`
	Options        []order.Option  `gorm:"serializer:json"`
	Extras         []order.Extra   `gorm:"serializer:json"`
	Notes          string
	TrackInventory bool
	CreatedAt      time.Time
}

// TableName maps the DTO to the "order_lines" table.
func (LineDTO) TableName() string {
	return "order_lines"
}

// StatusChangeDTO is one append-only audit record of an order transition.
type StatusChangeDTO struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	OrderID   string `gorm:"type:uuid;index"`
	Status    string
	Notes     string
	ChangedBy *string `gorm:"type:uuid"`
	CreatedAt time.Time
}

// TableName maps the DTO to the "order_status_history" table.
func (StatusChangeDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order aggregate to its rows.
func fromDomain(aggregate *order.Order) (OrderDTO, []LineDTO, []StatusChangeDTO) {
	charges := aggregate.Charges()
	dto := OrderDTO{
		ID:           aggregate.ID().String(),
		OrderNumber:  aggregate.OrderNumber(),
		CustomerID:   aggregate.CustomerID().String(),
		RestaurantID: aggregate.RestaurantID().String(),
		DriverID:     uuidPtrToString(aggregate.DriverID()),
		DeliveryID:   uuidPtrToString(aggregate.DeliveryID()),
		Status:       aggregate.Status().String(),
		Dropoff: GeoPointDTO{
			Latitude:  aggregate.Dropoff().Latitude(),
			Longitude: aggregate.Dropoff().Longitude(),
		},
		PaymentMethod:         string(aggregate.PaymentMethod()),
		DeliveryAddress:       aggregate.DeliveryAddress(),
		SpecialInstructions:   aggregate.SpecialInstructions(),
		Subtotal:              aggregate.Subtotal(),
		DeliveryFee:           charges.DeliveryFee,
		ServiceFee:            charges.ServiceFee,
		Tax:                   charges.Tax,
		Tip:                   charges.Tip,
		Discount:              charges.Discount,
		Total:                 aggregate.Total(),
		IsPaid:                aggregate.IsPaid(),
		PaymentDate:           aggregate.PaymentDate(),
		TransactionID:         aggregate.TransactionID(),
		CancellationReason:    string(aggregate.CancellationReason()),
		CancellationNotes:     aggregate.CancellationNotes(),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime(),
		ConfirmedAt:           aggregate.ConfirmedAt(),
		PreparingAt:           aggregate.PreparingAt(),
		ReadyAt:               aggregate.ReadyAt(),
		PickedUpAt:            aggregate.PickedUpAt(),
		DeliveredAt:           aggregate.DeliveredAt(),
		CancelledAt:           aggregate.CancelledAt(),
		Rated:                 aggregate.IsRated(),
		CreatedAt:             aggregate.CreatedAt(),
	}

	lines := make([]LineDTO, 0, len(aggregate.Lines()))
	for _, line := range aggregate.Lines() {
		lines = append(lines, LineDTO{
			ID:             line.ID().String(),
			OrderID:        dto.ID,
			ProductID:      line.ProductID().String(),
			Name:           line.Name(),
			Description:    line.Description(),
			ImageURL:       line.ImageURL(),
			UnitPrice:      line.UnitPrice(),
			Quantity:       line.Quantity(),
			Subtotal:       line.Subtotal(),
			Options:        line.Options(),
			Extras:         line.Extras(),
			Notes:          line.Notes(),
			TrackInventory: line.TracksInventory(),
		})
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		history = append(history, StatusChangeDTO{
			ID:        change.ID().String(),
			OrderID:   dto.ID,
			Status:    change.Status().String(),
			Notes:     change.Notes(),
			ChangedBy: uuidPtrToString(change.ChangedBy()),
			CreatedAt: change.CreatedAt(),
		})
	}

	return dto, lines, history
}

// toDomain reconstructs an order aggregate from its rows.
func toDomain(dto OrderDTO, lineDTOs []LineDTO, historyDTOs []StatusChangeDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromString(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromString(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	driverID, err := stringPtrToUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	deliveryID, err := stringPtrToUUID(dto.DeliveryID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Latitude, dto.Dropoff.Longitude)
	if err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(lineDTOs))
	for _, lineDTO := range lineDTOs {
		line, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	history := make([]order.StatusChange, 0, len(historyDTOs))
	for _, changeDTO := range historyDTOs {
		change, changeErr := historyToDomain(changeDTO)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                    id,
		OrderNumber:           dto.OrderNumber,
		CustomerID:            customerID,
		RestaurantID:          restaurantID,
		DriverID:              driverID,
		DeliveryID:            deliveryID,
		Status:                status,
		PaymentMethod:         order.PaymentMethod(dto.PaymentMethod),
		DeliveryAddress:       dto.DeliveryAddress,
		Dropoff:               dropoff,
		SpecialInstructions:   dto.SpecialInstructions,
		Lines:                 lines,
		History:               history,
		Subtotal:              dto.Subtotal,
		Charges: order.Charges{
			DeliveryFee: dto.DeliveryFee,
			ServiceFee:  dto.ServiceFee,
			Tax:         dto.Tax,
			Tip:         dto.Tip,
			Discount:    dto.Discount,
		},
		Total:                 dto.Total,
		IsPaid:                dto.IsPaid,
		PaymentDate:           dto.PaymentDate,
		TransactionID:         dto.TransactionID,
		CancellationReason:    order.CancellationReason(dto.CancellationReason),
		CancellationNotes:     dto.CancellationNotes,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime,
		ConfirmedAt:           dto.ConfirmedAt,
		PreparingAt:           dto.PreparingAt,
		ReadyAt:               dto.ReadyAt,
		PickedUpAt:            dto.PickedUpAt,
		DeliveredAt:           dto.DeliveredAt,
		CancelledAt:           dto.CancelledAt,
		Rated:                 dto.Rated,
		CreatedAt:             dto.CreatedAt,
	}), nil
}

func lineToDomain(dto LineDTO) (*order.Line, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromString(dto.ProductID)
	if err != nil {
		return nil, err
	}

	return order.RestoreLine(id, order.LineSpec{
		ProductID:      productID,
		Name:           dto.Name,
		Description:    dto.Description,
		ImageURL:       dto.ImageURL,
		UnitPrice:      dto.UnitPrice,
		Quantity:       dto.Quantity,
		Options:        dto.Options,
		Extras:         dto.Extras,
		Notes:          dto.Notes,
		TrackInventory: dto.TrackInventory,
	}), nil
}

func historyToDomain(dto StatusChangeDTO) (order.StatusChange, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return order.StatusChange{}, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.StatusChange{}, err
	}
	changedBy, err := stringPtrToUUID(dto.ChangedBy)
	if err != nil {
		return order.StatusChange{}, err
	}

	return order.RestoreStatusChange(id, status, dto.Notes, changedBy, dto.CreatedAt), nil
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
