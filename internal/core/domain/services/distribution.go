// Package services contains stateless domain services used across
// aggregates.
package services

import (
	"quickgo/internal/core/domain/model/restaurant"

	"github.com/shopspring/decimal"
)

// Distribution is the three-way split of a payment among the platform, the
// restaurant, and the driver. platform fee + restaurant amount always equals
// the subtotal, within currency rounding.
type Distribution struct {
	PlatformFee      decimal.Decimal
	RestaurantAmount decimal.Decimal
	DriverAmount     decimal.Decimal
}

// CalculateDistribution computes the payment split from the order amounts
// and the restaurant's commission percentage:
//
//	platform fee      = subtotal x commission rate / 100, rounded to 2 decimals
//	restaurant amount = subtotal - platform fee
//	driver amount     = delivery fee + tip
//
// The computation is pure and idempotent. It is re-run whenever the
// underlying amounts change.
func CalculateDistribution(
	subtotal, deliveryFee, tip, commissionRate decimal.Decimal,
) (Distribution, error) {
	if err := restaurant.ValidateCommissionRate(commissionRate); err != nil {
		return Distribution{}, err
	}

	platformFee := subtotal.Mul(commissionRate).Div(decimal.NewFromInt(100)).Round(2)
	return Distribution{
		PlatformFee:      platformFee,
		RestaurantAmount: subtotal.Sub(platformFee),
		DriverAmount:     deliveryFee.Add(tip),
	}, nil
}
