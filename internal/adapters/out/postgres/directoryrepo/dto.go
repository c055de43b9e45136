// Package directoryrepo persists the directory entries the order lifecycle
// reads and updates: restaurants, customers, drivers, and catalog products.
// Lifetime statistics counters are incremented in place with SQL expressions
// rather than read-modify-write so concurrent deliveries never lose updates.
package directoryrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/product"
	"quickgo/internal/core/domain/model/restaurant"
	"quickgo/internal/core/domain/model/user"
)

// RestaurantDTO is the database row behind a restaurant directory entry.
// Time windows are stored in minutes.
type RestaurantDTO struct {
	ID                     string `gorm:"type:uuid;primaryKey"`
	Name                   string
	Address                string
	Location               GeoPointDTO     `gorm:"embedded;embeddedPrefix:location_"`
	CommissionRate         decimal.Decimal `gorm:"type:numeric"`
	PreparationTimeMinutes int64
	MaxDeliveryTimeMinutes int64
	IsOpen                 bool
	TotalOrders            int
	TotalRevenue           decimal.Decimal `gorm:"type:numeric"`
}

// TableName maps the DTO to the "restaurants" table.
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// GeoPointDTO is an embedded coordinate pair.
type GeoPointDTO struct {
	Latitude  float64
	Longitude float64
}

// CustomerDTO is the database row behind a customer directory entry.
type CustomerDTO struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string
	Phone       string
	TotalOrders int
	TotalSpent  decimal.Decimal `gorm:"type:numeric"`
}

// TableName maps the DTO to the "customers" table.
func (CustomerDTO) TableName() string {
	return "customers"
}

// DriverDTO is the database row behind a driver directory entry.
type DriverDTO struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	Name            string
	Phone           string
	VehicleType     string
	ApprovalStatus  string
	IsAvailable     bool `gorm:"index"`
	TotalDeliveries int
	TotalEarnings   decimal.Decimal `gorm:"type:numeric"`
	Rating          decimal.Decimal `gorm:"type:numeric"`
}

// TableName maps the DTO to the "drivers" table.
func (DriverDTO) TableName() string {
	return "drivers"
}

// ProductDTO is the database row behind a catalog product.
type ProductDTO struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	RestaurantID   string `gorm:"type:uuid;index"`
	Name           string
	Description    string
	ImageURL       string
	Price          decimal.Decimal `gorm:"type:numeric"`
	IsAvailable    bool
	TrackInventory bool
	StockQuantity  int
}

// TableName maps the DTO to the "products" table.
func (ProductDTO) TableName() string {
	return "products"
}

func restaurantFromDomain(aggregate *restaurant.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:      aggregate.ID().String(),
		Name:    aggregate.Name(),
		Address: aggregate.Address(),
		Location: GeoPointDTO{
			Latitude:  aggregate.Location().Latitude(),
			Longitude: aggregate.Location().Longitude(),
		},
		CommissionRate:         aggregate.CommissionRate(),
		PreparationTimeMinutes: int64(aggregate.PreparationTime() / time.Minute),
		MaxDeliveryTimeMinutes: int64(aggregate.MaxDeliveryTime() / time.Minute),
		IsOpen:                 aggregate.IsOpen(),
		TotalOrders:            aggregate.TotalOrders(),
		TotalRevenue:           aggregate.TotalRevenue(),
	}
}

func restaurantToDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}

	return restaurant.RestoreRestaurant(restaurant.Snapshot{
		ID:              id,
		Name:            dto.Name,
		Address:         dto.Address,
		Location:        location,
		CommissionRate:  dto.CommissionRate,
		PreparationTime: time.Duration(dto.PreparationTimeMinutes) * time.Minute,
		MaxDeliveryTime: time.Duration(dto.MaxDeliveryTimeMinutes) * time.Minute,
		IsOpen:          dto.IsOpen,
		TotalOrders:     dto.TotalOrders,
		TotalRevenue:    dto.TotalRevenue,
	}), nil
}

func customerFromDomain(aggregate *user.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          aggregate.ID().String(),
		Name:        aggregate.Name(),
		Phone:       aggregate.Phone(),
		TotalOrders: aggregate.TotalOrders(),
		TotalSpent:  aggregate.TotalSpent(),
	}
}

func customerToDomain(dto CustomerDTO) (*user.Customer, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	return user.RestoreCustomer(user.CustomerSnapshot{
		ID:          id,
		Name:        dto.Name,
		Phone:       dto.Phone,
		TotalOrders: dto.TotalOrders,
		TotalSpent:  dto.TotalSpent,
	}), nil
}

func driverFromDomain(aggregate *user.Driver) DriverDTO {
	return DriverDTO{
		ID:              aggregate.ID().String(),
		Name:            aggregate.Name(),
		Phone:           aggregate.Phone(),
		VehicleType:     string(aggregate.VehicleType()),
		ApprovalStatus:  string(aggregate.ApprovalStatus()),
		IsAvailable:     aggregate.IsAvailable(),
		TotalDeliveries: aggregate.TotalDeliveries(),
		TotalEarnings:   aggregate.TotalEarnings(),
		Rating:          aggregate.Rating(),
	}
}

func driverToDomain(dto DriverDTO) (*user.Driver, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	return user.RestoreDriver(user.DriverSnapshot{
		ID:              id,
		Name:            dto.Name,
		Phone:           dto.Phone,
		VehicleType:     user.VehicleType(dto.VehicleType),
		ApprovalStatus:  user.ApprovalStatus(dto.ApprovalStatus),
		IsAvailable:     dto.IsAvailable,
		TotalDeliveries: dto.TotalDeliveries,
		TotalEarnings:   dto.TotalEarnings,
		Rating:          dto.Rating,
	}), nil
}

func productFromDomain(aggregate *product.Product) ProductDTO {
	return ProductDTO{
		ID:             aggregate.ID().String(),
		RestaurantID:   aggregate.RestaurantID().String(),
		Name:           aggregate.Name(),
		Description:    aggregate.Description(),
		ImageURL:       aggregate.ImageURL(),
		Price:          aggregate.Price(),
		IsAvailable:    aggregate.IsAvailable(),
		TrackInventory: aggregate.TracksInventory(),
		StockQuantity:  aggregate.StockQuantity(),
	}
}

func productToDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromString(dto.RestaurantID)
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(product.Snapshot{
		ID:             id,
		RestaurantID:   restaurantID,
		Name:           dto.Name,
		Description:    dto.Description,
		ImageURL:       dto.ImageURL,
		Price:          dto.Price,
		IsAvailable:    dto.IsAvailable,
		TrackInventory: dto.TrackInventory,
		StockQuantity:  dto.StockQuantity,
	}), nil
}
