package postgres

import (
	"gorm.io/gorm"

	"quickgo/internal/adapters/out/postgres/deliveryrepo"
	"quickgo/internal/adapters/out/postgres/directoryrepo"
	"quickgo/internal/adapters/out/postgres/orderrepo"
	"quickgo/internal/adapters/out/postgres/paymentrepo"
)

// Migrate creates or updates the schema for every persisted table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&orderrepo.StatusChangeDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.StatusChangeDTO{},
		&paymentrepo.PaymentDTO{},
		&paymentrepo.RefundDTO{},
		&paymentrepo.StatusChangeDTO{},
		&directoryrepo.RestaurantDTO{},
		&directoryrepo.CustomerDTO{},
		&directoryrepo.DriverDTO{},
		&directoryrepo.ProductDTO{},
	)
}
