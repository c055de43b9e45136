package user

import (
	"errors"
	"fmt"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrDriverIsNotConstructed is returned when a Driver instance was not
// created through NewDriver or RestoreDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

// VehicleType is how a driver moves orders around. The codes are part of the
// wire contract.
type VehicleType string

const (
	// VehicleBike is a bicycle.
	VehicleBike VehicleType = "BIKE"
	// VehicleMotorcycle is a motorcycle or scooter.
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	// VehicleCar is a car.
	VehicleCar VehicleType = "CAR"
)

// Validate checks that the vehicle type is one of the enumerated codes.
func (v VehicleType) Validate() error {
	switch v {
	case VehicleBike, VehicleMotorcycle, VehicleCar:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"vehicleType", fmt.Errorf("%q is not a valid vehicle type", string(v)))
	}
}

// ApprovalStatus is the onboarding state of a driver profile.
type ApprovalStatus string

const (
	// ApprovalPending means the profile is under review.
	ApprovalPending ApprovalStatus = "PENDING"
	// ApprovalApproved means the driver may take deliveries.
	ApprovalApproved ApprovalStatus = "APPROVED"
	// ApprovalRejected means the profile was rejected.
	ApprovalRejected ApprovalStatus = "REJECTED"
	// ApprovalSuspended means the driver is temporarily barred.
	ApprovalSuspended ApprovalStatus = "SUSPENDED"
)

// Validate checks that the approval status is one of the enumerated codes.
func (a ApprovalStatus) Validate() error {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalSuspended:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"approvalStatus", fmt.Errorf("%q is not a valid approval status", string(a)))
	}
}

// Driver is the courier directory entry. Delivery assignment requires an
// approved, available profile; completing a delivery increments the driver's
// statistics and releases the profile back to available.
type Driver struct {
	id              kernel.UUID
	name            string
	phone           string
	vehicleType     VehicleType
	approvalStatus  ApprovalStatus
	isAvailable     bool
	totalDeliveries int
	totalEarnings   decimal.Decimal
	rating          decimal.Decimal

	isConstructed bool
}

// NewDriver creates a driver profile in Pending approval, unavailable until
// approved and explicitly switched on.
func NewDriver(name string, phone string, vehicleType VehicleType) (*Driver, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if err := vehicleType.Validate(); err != nil {
		return nil, err
	}

	return &Driver{
		id:             kernel.NewUUID(),
		name:           name,
		phone:          phone,
		vehicleType:    vehicleType,
		approvalStatus: ApprovalPending,
		totalEarnings:  decimal.Zero,
		rating:         decimal.Zero,
		isConstructed:  true,
	}, nil
}

// DriverSnapshot carries every persisted field of a Driver for reconstruction.
type DriverSnapshot struct {
	ID              kernel.UUID
	Name            string
	Phone           string
	VehicleType     VehicleType
	ApprovalStatus  ApprovalStatus
	IsAvailable     bool
	TotalDeliveries int
	TotalEarnings   decimal.Decimal
	Rating          decimal.Decimal
}

// RestoreDriver reconstructs a driver from persistence.
func RestoreDriver(s DriverSnapshot) *Driver {
	return &Driver{
		id:              s.ID,
		name:            s.Name,
		phone:           s.Phone,
		vehicleType:     s.VehicleType,
		approvalStatus:  s.ApprovalStatus,
		isAvailable:     s.IsAvailable,
		totalDeliveries: s.TotalDeliveries,
		totalEarnings:   s.TotalEarnings,
		rating:          s.Rating,
		isConstructed:   true,
	}
}

// Validate ensures the Driver was created through a constructor.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's contact number.
func (d *Driver) Phone() string {
	return d.phone
}

// VehicleType returns the driver's vehicle.
func (d *Driver) VehicleType() VehicleType {
	return d.vehicleType
}

// ApprovalStatus returns the onboarding state.
func (d *Driver) ApprovalStatus() ApprovalStatus {
	return d.approvalStatus
}

// IsApproved reports whether the driver passed onboarding.
func (d *Driver) IsApproved() bool {
	return d.approvalStatus == ApprovalApproved
}

// IsAvailable reports whether the driver can take a new delivery.
func (d *Driver) IsAvailable() bool {
	return d.isAvailable
}

// SetAvailable toggles whether the driver can take deliveries. Assignment
// switches it off; completion or cancellation switches it back on.
func (d *Driver) SetAvailable(available bool) {
	d.isAvailable = available
}

// Approve marks the profile approved.
func (d *Driver) Approve() {
	d.approvalStatus = ApprovalApproved
}

// Suspend bars the driver from new deliveries.
func (d *Driver) Suspend() {
	d.approvalStatus = ApprovalSuspended
	d.isAvailable = false
}

// TotalDeliveries returns the number of completed deliveries.
func (d *Driver) TotalDeliveries() int {
	return d.totalDeliveries
}

// TotalEarnings returns the accumulated delivery fees and tips.
func (d *Driver) TotalEarnings() decimal.Decimal {
	return d.totalEarnings
}

// Rating returns the driver's average customer rating.
func (d *Driver) Rating() decimal.Decimal {
	return d.rating
}
