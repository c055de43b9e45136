package order_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/errs"
)

func TestNewOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		o := mustNewOrder(t)

		assert.NoError(t, o.Validate())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.True(t, o.Total().Equal(decimal.RequireFromString("4.00"))) // charges only, no lines yet
		assert.False(t, o.IsPaid())
		assert.Nil(t, o.DriverID())
		assert.Nil(t, o.DeliveryID())

		require.Len(t, o.History(), 1)
		assert.Equal(t, order.StatusPending, o.History()[0].Status())
		require.NotNil(t, o.History()[0].ChangedBy())
		assert.True(t, o.History()[0].ChangedBy().IsEqual(o.CustomerID()))
	})

	t.Run("order number carries the QG prefix", func(t *testing.T) {
		o := mustNewOrder(t)
		assert.Regexp(t, "^QG[0-9A-F]{10}$", o.OrderNumber())
	})

	t.Run("order numbers are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 50 {
			number := mustNewOrder(t).OrderNumber()
			assert.False(t, seen[number])
			seen[number] = true
		}
	})

	t.Run("missing delivery address", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), order.PaymentMethodCard,
			"", mustNewGeoPoint(t, 41.0, 29.0), order.Charges{}, "")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("invalid payment method", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), order.PaymentMethod("CRYPTO"),
			"1 Main St", mustNewGeoPoint(t, 41.0, 29.0), order.Charges{}, "")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("negative charge", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), order.PaymentMethodCard,
			"1 Main St", mustNewGeoPoint(t, 41.0, 29.0),
			order.Charges{Tip: decimal.RequireFromString("-1.00")}, "")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value order fails validation", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_AddLine(t *testing.T) {
	t.Run("recomputes totals on every line", func(t *testing.T) {
		o := mustNewOrder(t)

		require.NoError(t, o.AddLine(mustNewLine(t, order.LineSpec{
			ProductID: kernel.NewUUID(),
			Name:      "Margherita",
			UnitPrice: decimal.RequireFromString("8.50"),
			Quantity:  2,
		})))
		require.NoError(t, o.AddLine(mustNewLine(t, order.LineSpec{
			ProductID: kernel.NewUUID(),
			Name:      "Tiramisu",
			UnitPrice: decimal.RequireFromString("3.00"),
			Quantity:  1,
		})))

		assert.Equal(t, "20.00", o.Subtotal().StringFixed(2))
		// 20.00 + 2.50 + 0.50 + 0 + 1.00 - 0 = 24.00
		assert.Equal(t, "24.00", o.Total().StringFixed(2))
	})

	t.Run("rejected once the order is confirmed", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.Confirm(nil, 20*time.Minute, 40*time.Minute))

		err := o.AddLine(mustNewLine(t, order.LineSpec{
			ProductID: kernel.NewUUID(),
			Name:      "Tiramisu",
			UnitPrice: decimal.RequireFromString("3.00"),
			Quantity:  1,
		}))
		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})
}

func TestOrder_HappyPath(t *testing.T) {
	o := mustNewOrder(t)
	actor := kernel.NewUUID()
	driverID := kernel.NewUUID()

	require.NoError(t, o.Confirm(&actor, 20*time.Minute, 40*time.Minute))
	assert.Equal(t, order.StatusConfirmed, o.Status())
	require.NotNil(t, o.ConfirmedAt())
	require.NotNil(t, o.EstimatedDeliveryTime())
	assert.WithinDuration(t, o.ConfirmedAt().Add(time.Hour), *o.EstimatedDeliveryTime(), time.Second)

	require.NoError(t, o.StartPreparing(&actor))
	assert.NotNil(t, o.PreparingAt())

	require.NoError(t, o.MarkReady(&actor))
	assert.NotNil(t, o.ReadyAt())

	require.NoError(t, o.MarkPickedUp(driverID, &actor))
	assert.NotNil(t, o.PickedUpAt())
	require.NotNil(t, o.DriverID())
	assert.True(t, o.DriverID().IsEqual(driverID))

	require.NoError(t, o.MarkInTransit(&actor))
	require.NoError(t, o.MarkDelivered(&actor))
	assert.Equal(t, order.StatusDelivered, o.Status())
	assert.NotNil(t, o.DeliveredAt())

	wantHistory := []order.Status{
		order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
		order.StatusReady, order.StatusPickedUp, order.StatusInTransit,
		order.StatusDelivered,
	}
	require.Len(t, o.History(), len(wantHistory))
	for i, change := range o.History() {
		assert.Equal(t, wantHistory[i], change.Status())
	}
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancel from pending records reason and notes", func(t *testing.T) {
		o := mustNewOrder(t)
		actor := kernel.NewUUID()

		require.NoError(t, o.Cancel(order.CancelledByCustomer, "changed my mind", &actor))
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, order.CancelledByCustomer, o.CancellationReason())
		assert.Equal(t, "changed my mind", o.CancellationNotes())
		assert.NotNil(t, o.CancelledAt())
	})

	t.Run("cancel from preparing fails and leaves the order untouched", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.Confirm(nil, 20*time.Minute, 40*time.Minute))
		require.NoError(t, o.StartPreparing(nil))
		historyLen := len(o.History())

		err := o.Cancel(order.CancelledByCustomer, "", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.StatusPreparing, o.Status())
		assert.Nil(t, o.CancelledAt())
		assert.Empty(t, o.CancellationReason())
		assert.Len(t, o.History(), historyLen)
	})

	t.Run("invalid reason code", func(t *testing.T) {
		o := mustNewOrder(t)
		err := o.Cancel(order.CancellationReason("NO_SHOW"), "", nil)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_CancelDueToFailedDelivery(t *testing.T) {
	t.Run("bypasses the customer cancellation window", func(t *testing.T) {
		o := mustNewOrder(t)
		driverID := kernel.NewUUID()
		require.NoError(t, o.Confirm(nil, 20*time.Minute, 40*time.Minute))
		require.NoError(t, o.StartPreparing(nil))
		require.NoError(t, o.MarkReady(nil))
		require.NoError(t, o.MarkPickedUp(driverID, nil))
		require.NoError(t, o.MarkInTransit(nil))

		require.NoError(t, o.CancelDueToFailedDelivery("delivery failed after 3 attempts"))
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, order.CancelledDriverUnavailable, o.CancellationReason())
		last := o.History()[len(o.History())-1]
		assert.Equal(t, order.StatusCancelled, last.Status())
		assert.Nil(t, last.ChangedBy())
	})

	t.Run("rejected once delivered", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.Cancel(order.CancelledByCustomer, "", nil))
		assert.ErrorIs(t, o.CancelDueToFailedDelivery(""), errs.ErrInvalidTransition)
	})
}

func TestOrder_MarkPaid(t *testing.T) {
	o := mustNewOrder(t)
	paidAt := time.Now().UTC()

	require.NoError(t, o.MarkPaid("PAY20260828120000ABCDEF12", paidAt))
	assert.True(t, o.IsPaid())
	assert.Equal(t, "PAY20260828120000ABCDEF12", o.TransactionID())
	require.NotNil(t, o.PaymentDate())
	assert.Equal(t, paidAt, *o.PaymentDate())

	assert.ErrorIs(t, o.MarkPaid("", paidAt), errs.ErrValueIsRequired)
}

func TestOrder_AttachDelivery(t *testing.T) {
	o := mustNewOrder(t)
	deliveryID := kernel.NewUUID()

	require.NoError(t, o.AttachDelivery(deliveryID))
	require.NotNil(t, o.DeliveryID())
	assert.True(t, o.DeliveryID().IsEqual(deliveryID))

	err := o.AttachDelivery(kernel.NewUUID())
	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
}

func TestOrder_AssignDriver(t *testing.T) {
	o := mustNewOrder(t)
	driverID := kernel.NewUUID()

	require.NoError(t, o.AssignDriver(driverID))
	require.NotNil(t, o.DriverID())
	assert.True(t, o.DriverID().IsEqual(driverID))
	// only a reference: the status does not move
	assert.Equal(t, order.StatusPending, o.Status())

	assert.Error(t, o.AssignDriver(kernel.UUID{}))
}

func TestOrder_MarkRated(t *testing.T) {
	t.Run("only a delivered order can be rated", func(t *testing.T) {
		o := mustNewOrder(t)
		assert.False(t, o.CanBeRated())
		assert.ErrorIs(t, o.MarkRated(), errs.ErrPreconditionFailed)
	})

	t.Run("rated exactly once", func(t *testing.T) {
		o := deliveredOrder(t)
		assert.True(t, o.CanBeRated())
		require.NoError(t, o.MarkRated())
		assert.True(t, o.IsRated())
		assert.False(t, o.CanBeRated())
		assert.ErrorIs(t, o.MarkRated(), errs.ErrPreconditionFailed)
	})
}

func TestOrder_IsDelayed(t *testing.T) {
	t.Run("no estimate means not delayed", func(t *testing.T) {
		assert.False(t, mustNewOrder(t).IsDelayed())
	})

	t.Run("past estimate on a live order is delayed", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		o := order.RestoreOrder(order.Snapshot{
			ID:                    kernel.NewUUID(),
			OrderNumber:           "QG0123456789",
			CustomerID:            kernel.NewUUID(),
			RestaurantID:          kernel.NewUUID(),
			Status:                order.StatusPreparing,
			PaymentMethod:         order.PaymentMethodCard,
			DeliveryAddress:       "1 Main St",
			Dropoff:               mustNewGeoPoint(t, 41.0, 29.0),
			EstimatedDeliveryTime: &past,
			CreatedAt:             past,
		})
		assert.True(t, o.IsDelayed())
	})

	t.Run("terminal orders are never delayed", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		o := order.RestoreOrder(order.Snapshot{
			ID:                    kernel.NewUUID(),
			OrderNumber:           "QG0123456789",
			CustomerID:            kernel.NewUUID(),
			RestaurantID:          kernel.NewUUID(),
			Status:                order.StatusDelivered,
			PaymentMethod:         order.PaymentMethodCard,
			DeliveryAddress:       "1 Main St",
			Dropoff:               mustNewGeoPoint(t, 41.0, 29.0),
			EstimatedDeliveryTime: &past,
			CreatedAt:             past,
		})
		assert.False(t, o.IsDelayed())
	})
}

func mustNewOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		order.PaymentMethodCard,
		"1 Main St",
		mustNewGeoPoint(t, 41.0082, 28.9784),
		order.Charges{
			DeliveryFee: decimal.RequireFromString("2.50"),
			ServiceFee:  decimal.RequireFromString("0.50"),
			Tax:         decimal.Zero,
			Tip:         decimal.RequireFromString("1.00"),
			Discount:    decimal.Zero,
		},
		"ring the bell")
	require.NoError(t, err)
	return o
}

func deliveredOrder(t *testing.T) *order.Order {
	t.Helper()
	o := mustNewOrder(t)
	require.NoError(t, o.Confirm(nil, 20*time.Minute, 40*time.Minute))
	require.NoError(t, o.StartPreparing(nil))
	require.NoError(t, o.MarkReady(nil))
	require.NoError(t, o.MarkPickedUp(kernel.NewUUID(), nil))
	require.NoError(t, o.MarkInTransit(nil))
	require.NoError(t, o.MarkDelivered(nil))
	return o
}

func mustNewGeoPoint(t *testing.T, latitude, longitude float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(latitude, longitude)
	require.NoError(t, err)
	return point
}
