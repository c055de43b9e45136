package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickgo/internal/core/domain/model/user"
	"quickgo/internal/pkg/errs"
)

func TestNewDriver(t *testing.T) {
	t.Run("starts pending and unavailable", func(t *testing.T) {
		d, err := user.NewDriver("Ayşe", "+90 555 000 0000", user.VehicleMotorcycle)
		require.NoError(t, err)
		assert.NoError(t, d.Validate())
		assert.Equal(t, user.ApprovalPending, d.ApprovalStatus())
		assert.False(t, d.IsApproved())
		assert.False(t, d.IsAvailable())
		assert.Equal(t, 0, d.TotalDeliveries())
	})

	t.Run("invalid vehicle type", func(t *testing.T) {
		_, err := user.NewDriver("Ayşe", "", user.VehicleType("SKATEBOARD"))
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := user.NewDriver("", "", user.VehicleCar)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestDriver_Lifecycle(t *testing.T) {
	d, err := user.NewDriver("Ayşe", "+90 555 000 0000", user.VehicleMotorcycle)
	require.NoError(t, err)

	d.Approve()
	assert.True(t, d.IsApproved())

	d.SetAvailable(true)
	assert.True(t, d.IsAvailable())

	d.Suspend()
	assert.False(t, d.IsApproved())
	assert.False(t, d.IsAvailable())
}

func TestNewCustomer(t *testing.T) {
	t.Run("valid customer", func(t *testing.T) {
		c, err := user.NewCustomer("Mehmet", "+90 555 111 1111")
		require.NoError(t, err)
		assert.NoError(t, c.Validate())
		assert.Equal(t, 0, c.TotalOrders())
		assert.True(t, c.TotalSpent().IsZero())
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := user.NewCustomer("", "")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
