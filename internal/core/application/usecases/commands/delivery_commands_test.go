package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/core/domain/model/user"
	"quickgo/internal/pkg/errs"
)

func TestAssignDriverCommandHandler(t *testing.T) {
	t.Run("assignment marks the driver busy and stamps an ETA", func(t *testing.T) {
		uow := newMemUoW()
		placed := placeOrder(t, uow)
		created := advanceOrderToReady(t, uow, placed)

		driver := assignSeededDriver(t, uow, created)

		assigned := uow.deliveries[created.ID().String()]
		assert.Equal(t, delivery.StatusAssigned, assigned.Status())
		require.NotNil(t, assigned.DriverID())
		assert.True(t, assigned.DriverID().IsEqual(driver.ID()))
		assert.NotNil(t, assigned.EstimatedDeliveryTime())
		assert.False(t, uow.drivers[driver.ID().String()].IsAvailable())

		// the order carries the driver reference from assignment on, while
		// its status stays Ready until pickup
		accepted := uow.orders[placed.ID().String()]
		require.NotNil(t, accepted.DriverID())
		assert.True(t, accepted.DriverID().IsEqual(driver.ID()))
		assert.Equal(t, order.StatusReady, accepted.Status())
	})

	t.Run("unapproved driver is rejected", func(t *testing.T) {
		uow := newMemUoW()
		placed := placeOrder(t, uow)
		created := advanceOrderToReady(t, uow, placed)

		pending, err := user.NewDriver("Sam", "+15550102", user.VehicleCar)
		require.NoError(t, err)
		pending.SetAvailable(true)
		uow.drivers[pending.ID().String()] = pending

		cmd, err := commands.NewAssignDriverCommand(created.ID(), pending.ID())
		require.NoError(t, err)
		err = commands.NewAssignDriverCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), cmd)
		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("busy driver is rejected", func(t *testing.T) {
		uow := newMemUoW()
		placed := placeOrder(t, uow)
		created := advanceOrderToReady(t, uow, placed)

		busy := seedDriver(t, uow)
		busy.SetAvailable(false)

		cmd, err := commands.NewAssignDriverCommand(created.ID(), busy.ID())
		require.NoError(t, err)
		err = commands.NewAssignDriverCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), cmd)
		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})
}

func TestPickupAndTransitLockstep(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	created := advanceOrderToReady(t, uow, placed)
	driver := assignSeededDriver(t, uow, created)

	pickupCmd, err := commands.NewStartPickupCommand(created.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewStartPickupCommandHandler(memDeliveryUoWFactory{uow}).Handle(t.Context(), pickupCmd))
	assert.Equal(t, delivery.StatusPickingUp, uow.deliveries[created.ID().String()].Status())

	confirmCmd, err := commands.NewConfirmPickupCommand(created.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewConfirmPickupCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), confirmCmd))

	assert.Equal(t, delivery.StatusPickedUp, uow.deliveries[created.ID().String()].Status())
	collected := uow.orders[placed.ID().String()]
	assert.Equal(t, order.StatusPickedUp, collected.Status())
	require.NotNil(t, collected.DriverID())
	assert.True(t, collected.DriverID().IsEqual(driver.ID()))

	transitCmd, err := commands.NewStartTransitCommand(created.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewStartTransitCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), transitCmd))
	assert.Equal(t, delivery.StatusInTransit, uow.deliveries[created.ID().String()].Status())
	assert.Equal(t, order.StatusInTransit, uow.orders[placed.ID().String()].Status())

	arrivedCmd, err := commands.NewMarkArrivedCommand(created.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewMarkArrivedCommandHandler(memDeliveryUoWFactory{uow}).Handle(t.Context(), arrivedCmd))
	assert.Equal(t, delivery.StatusArrived, uow.deliveries[created.ID().String()].Status())
	// arrival does not complete the order
	assert.Equal(t, order.StatusInTransit, uow.orders[placed.ID().String()].Status())
}

func TestCompleteDeliveryCommandHandler(t *testing.T) {
	t.Run("handover completes both aggregates and settles statistics", func(t *testing.T) {
		uow := newMemUoW()
		placed := placeOrder(t, uow)
		created := advanceOrderToReady(t, uow, placed)
		driver := assignSeededDriver(t, uow, created)
		walkToArrived(t, uow, created)

		cmd, err := commands.NewCompleteDeliveryCommand(
			created.ID(), "https://proof.example/p.jpg", "", "left at the door")
		require.NoError(t, err)
		require.NoError(t, commands.NewCompleteDeliveryCommandHandler(memUoWFactory{uow}).Handle(t.Context(), cmd))

		completed := uow.deliveries[created.ID().String()]
		assert.Equal(t, delivery.StatusDelivered, completed.Status())
		assert.Equal(t, "https://proof.example/p.jpg", completed.ProofPhotoURL())
		assert.Equal(t, order.StatusDelivered, uow.orders[placed.ID().String()].Status())

		// lifetime counters moved once each
		r := uow.restaurants[placed.RestaurantID().String()]
		assert.Equal(t, 1, r.TotalOrders())
		assert.Equal(t, "24.00", r.TotalRevenue().StringFixed(2))

		c := uow.customers[placed.CustomerID().String()]
		assert.Equal(t, 1, c.TotalOrders())
		assert.Equal(t, "24.00", c.TotalSpent().StringFixed(2))

		d := uow.drivers[driver.ID().String()]
		assert.Equal(t, 1, d.TotalDeliveries())
		assert.Equal(t, "3.50", d.TotalEarnings().StringFixed(2))
		assert.True(t, d.IsAvailable())
	})

	t.Run("handover requires a proof artifact", func(t *testing.T) {
		_, err := commands.NewCompleteDeliveryCommand(kernel.NewUUID(), "", "", "no proof")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("signature alone is sufficient proof", func(t *testing.T) {
		_, err := commands.NewCompleteDeliveryCommand(kernel.NewUUID(), "", "J. Doe", "")
		assert.NoError(t, err)
	})
}

func TestFailDeliveryCommandHandler(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	created := advanceOrderToReady(t, uow, placed)
	driver := assignSeededDriver(t, uow, created)

	handler := commands.NewFailDeliveryCommandHandler(memUoWFactory{uow})

	// two failed attempts leave the delivery retryable
	for attempt := 1; attempt < delivery.DefaultMaxAttempts; attempt++ {
		cmd, err := commands.NewFailDeliveryCommand(
			created.ID(), delivery.FailureCustomerUnavailable, "nobody answered", "")
		require.NoError(t, err)
		require.NoError(t, handler.Handle(t.Context(), cmd))

		failing := uow.deliveries[created.ID().String()]
		assert.Equal(t, attempt, failing.Attempts())
		assert.Equal(t, delivery.StatusAssigned, failing.Status())
		assert.Equal(t, order.StatusReady, uow.orders[placed.ID().String()].Status())
	}

	// the final attempt fails terminally and cascades
	cmd, err := commands.NewFailDeliveryCommand(
		created.ID(), delivery.FailureCustomerUnavailable, "gave up", "")
	require.NoError(t, err)
	require.NoError(t, handler.Handle(t.Context(), cmd))

	failed := uow.deliveries[created.ID().String()]
	assert.Equal(t, delivery.StatusFailed, failed.Status())
	assert.NotNil(t, failed.FailedAt())

	abandoned := uow.orders[placed.ID().String()]
	assert.Equal(t, order.StatusCancelled, abandoned.Status())
	assert.Equal(t, order.CancelledDriverUnavailable, abandoned.CancellationReason())

	for _, p := range uow.products {
		assert.Equal(t, 10, p.StockQuantity())
	}
	for _, p := range uow.payments {
		assert.Equal(t, payment.StatusCancelled, p.Status())
	}
	assert.True(t, uow.drivers[driver.ID().String()].IsAvailable())

	// terminal deliveries reject further attempts
	err = handler.Handle(t.Context(), cmd)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestCancelDeliveryCommandHandler(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	created := advanceOrderToReady(t, uow, placed)
	driver := assignSeededDriver(t, uow, created)

	cmd, err := commands.NewCancelDeliveryCommand(created.ID(), "restaurant cannot fulfil")
	require.NoError(t, err)
	require.NoError(t, commands.NewCancelDeliveryCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), cmd))

	assert.Equal(t, delivery.StatusCancelled, uow.deliveries[created.ID().String()].Status())
	assert.True(t, uow.drivers[driver.ID().String()].IsAvailable())
	// the order is untouched; dispatch decides its fate separately
	assert.Equal(t, order.StatusReady, uow.orders[placed.ID().String()].Status())
}

// walkToArrived drives an assigned delivery through pickup and transit.
func walkToArrived(t *testing.T, uow *memUoW, created *delivery.Delivery) {
	t.Helper()
	for _, step := range []func() error{
		func() error {
			cmd, err := commands.NewConfirmPickupCommand(created.ID())
			require.NoError(t, err)
			return commands.NewConfirmPickupCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), cmd)
		},
		func() error {
			cmd, err := commands.NewStartTransitCommand(created.ID())
			require.NoError(t, err)
			return commands.NewStartTransitCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), cmd)
		},
		func() error {
			cmd, err := commands.NewMarkArrivedCommand(created.ID())
			require.NoError(t, err)
			return commands.NewMarkArrivedCommandHandler(memDeliveryUoWFactory{uow}).Handle(t.Context(), cmd)
		},
	} {
		require.NoError(t, step())
	}
}

