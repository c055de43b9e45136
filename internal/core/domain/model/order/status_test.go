package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/errs"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status order.Status
		want   string
	}{
		{order.StatusUnknown, "UNKNOWN"},
		{order.StatusPending, "PENDING"},
		{order.StatusConfirmed, "CONFIRMED"},
		{order.StatusPreparing, "PREPARING"},
		{order.StatusReady, "READY"},
		{order.StatusPickedUp, "PICKED_UP"},
		{order.StatusInTransit, "IN_TRANSIT"},
		{order.StatusDelivered, "DELIVERED"},
		{order.StatusCancelled, "CANCELLED"},
		{order.Status(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("round trips every valid status", func(t *testing.T) {
		for _, status := range []order.Status{
			order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
			order.StatusReady, order.StatusPickedUp, order.StatusInTransit,
			order.StatusDelivered, order.StatusCancelled,
		} {
			parsed, err := order.ParseStatus(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		_, err := order.ParseStatus("SHIPPED")
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects UNKNOWN", func(t *testing.T) {
		_, err := order.ParseStatus("UNKNOWN")
		assert.Error(t, err)
	})
}

func TestStatus_Transitions(t *testing.T) {
	type transition func(order.Status) (order.Status, error)

	confirm := func(s order.Status) (order.Status, error) { return s.Confirm() }
	startPreparing := func(s order.Status) (order.Status, error) { return s.StartPreparing() }
	markReady := func(s order.Status) (order.Status, error) { return s.MarkReady() }
	markPickedUp := func(s order.Status) (order.Status, error) { return s.MarkPickedUp() }
	markInTransit := func(s order.Status) (order.Status, error) { return s.MarkInTransit() }
	markDelivered := func(s order.Status) (order.Status, error) { return s.MarkDelivered() }

	tests := []struct {
		name string
		from order.Status
		op   transition
		want order.Status
	}{
		{"pending confirms", order.StatusPending, confirm, order.StatusConfirmed},
		{"confirmed starts preparing", order.StatusConfirmed, startPreparing, order.StatusPreparing},
		{"preparing becomes ready", order.StatusPreparing, markReady, order.StatusReady},
		{"ready is picked up", order.StatusReady, markPickedUp, order.StatusPickedUp},
		{"picked up enters transit", order.StatusPickedUp, markInTransit, order.StatusInTransit},
		{"in transit is delivered", order.StatusInTransit, markDelivered, order.StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("every skip-ahead transition fails", func(t *testing.T) {
		illegal := []struct {
			name string
			from order.Status
			op   transition
		}{
			{"confirm from confirmed", order.StatusConfirmed, confirm},
			{"confirm from delivered", order.StatusDelivered, confirm},
			{"prepare from pending", order.StatusPending, startPreparing},
			{"ready from confirmed", order.StatusConfirmed, markReady},
			{"pick up from preparing", order.StatusPreparing, markPickedUp},
			{"transit from ready", order.StatusReady, markInTransit},
			{"deliver from pending", order.StatusPending, markDelivered},
			{"deliver from cancelled", order.StatusCancelled, markDelivered},
		}

		for _, tt := range illegal {
			t.Run(tt.name, func(t *testing.T) {
				got, err := tt.op(tt.from)
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrInvalidTransition)
				assert.Equal(t, order.StatusUnknown, got)
			})
		}
	})
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("cancellable from pending and confirmed", func(t *testing.T) {
		for _, from := range []order.Status{order.StatusPending, order.StatusConfirmed} {
			got, err := from.Cancel()
			require.NoError(t, err)
			assert.Equal(t, order.StatusCancelled, got)
		}
	})

	t.Run("not cancellable once preparation starts", func(t *testing.T) {
		for _, from := range []order.Status{
			order.StatusPreparing, order.StatusReady, order.StatusPickedUp,
			order.StatusInTransit, order.StatusDelivered, order.StatusCancelled,
		} {
			_, err := from.Cancel()
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		}
	})
}

func TestStatus_ForceCancel(t *testing.T) {
	t.Run("force cancel allowed from any non-terminal state", func(t *testing.T) {
		for _, from := range []order.Status{
			order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
			order.StatusReady, order.StatusPickedUp, order.StatusInTransit,
		} {
			got, err := from.ForceCancel()
			require.NoError(t, err)
			assert.Equal(t, order.StatusCancelled, got)
		}
	})

	t.Run("force cancel rejected from terminal states", func(t *testing.T) {
		for _, from := range []order.Status{order.StatusDelivered, order.StatusCancelled} {
			_, err := from.ForceCancel()
			assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		}
	})

	t.Run("force cancel rejected for invalid status", func(t *testing.T) {
		_, err := order.StatusUnknown.ForceCancel()
		assert.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
	assert.False(t, order.StatusInTransit.IsTerminal())
}
