package commands_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/pkg/errs"
)

func TestProcessPaymentCommandHandler(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	p := paymentOf(t, uow, placed)

	cmd, err := commands.NewProcessPaymentCommand(p.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewProcessPaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd))

	assert.Equal(t, payment.StatusProcessing, uow.payments[p.ID().String()].Status())
}

func TestCompletePaymentCommandHandler(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	p := paymentOf(t, uow, placed)

	cmd, err := commands.NewCompletePaymentCommand(p.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewCompletePaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd))

	completed := uow.payments[p.ID().String()]
	assert.Equal(t, payment.StatusCompleted, completed.Status())

	// the order carries the payment outcome
	paid := uow.orders[placed.ID().String()]
	assert.True(t, paid.IsPaid())
	assert.Equal(t, completed.TransactionID(), paid.TransactionID())
	require.NotNil(t, paid.PaymentDate())
	assert.Equal(t, *completed.CompletedAt(), *paid.PaymentDate())
}

func TestFailPaymentCommandHandler(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	p := paymentOf(t, uow, placed)

	cmd, err := commands.NewFailPaymentCommand(
		p.ID(), payment.FailureInsufficientFunds, "balance too low")
	require.NoError(t, err)
	require.NoError(t, commands.NewFailPaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd))

	failed := uow.payments[p.ID().String()]
	assert.Equal(t, payment.StatusFailed, failed.Status())
	assert.Equal(t, payment.FailureInsufficientFunds, failed.FailureReason())
	assert.Equal(t, "balance too low", failed.FailureMessage())

	// the order stays put so the customer can retry
	assert.Equal(t, order.StatusPending, uow.orders[placed.ID().String()].Status())
	assert.False(t, uow.orders[placed.ID().String()].IsPaid())
}

func TestCancelPaymentCommandHandler(t *testing.T) {
	uow := newMemUoW()
	placed := placeOrder(t, uow)
	p := paymentOf(t, uow, placed)

	cmd, err := commands.NewCancelPaymentCommand(p.ID(), "abandoned checkout")
	require.NoError(t, err)
	require.NoError(t, commands.NewCancelPaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd))

	assert.Equal(t, payment.StatusCancelled, uow.payments[p.ID().String()].Status())
}

func TestRefundPaymentCommandHandler(t *testing.T) {
	t.Run("partial then full refund", func(t *testing.T) {
		uow := newMemUoW()
		placed := placeOrder(t, uow)
		p := completeSeededPayment(t, uow, placed)

		partial := decimal.RequireFromString("10.00")
		cmd, err := commands.NewRefundPaymentCommand(p.ID(), &partial, "missing item", nil)
		require.NoError(t, err)
		refund, err := commands.NewRefundPaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "10.00", refund.Amount().StringFixed(2))
		assert.Equal(t, payment.StatusPartiallyRefunded, uow.payments[p.ID().String()].Status())

		cmd, err = commands.NewRefundPaymentCommand(p.ID(), nil, "goodwill", nil)
		require.NoError(t, err)
		refund, err = commands.NewRefundPaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "14.00", refund.Amount().StringFixed(2))
		assert.Equal(t, payment.StatusRefunded, uow.payments[p.ID().String()].Status())
	})

	t.Run("refund requires a collected payment", func(t *testing.T) {
		uow := newMemUoW()
		placed := placeOrder(t, uow)
		p := paymentOf(t, uow, placed)

		cmd, err := commands.NewRefundPaymentCommand(p.ID(), nil, "", nil)
		require.NoError(t, err)
		_, err = commands.NewRefundPaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestCancelStalePaymentsCommandHandler(t *testing.T) {
	uow := newMemUoW()
	stale := placeOrder(t, uow)
	collected := placeOrder(t, uow)
	completeSeededPayment(t, uow, collected)

	cmd, err := commands.NewCancelStalePaymentsCommand(time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	swept, err := commands.NewCancelStalePaymentsCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 1, swept)
	assert.Equal(t, payment.StatusCancelled, paymentOf(t, uow, stale).Status())
	assert.Equal(t, payment.StatusCompleted, paymentOf(t, uow, collected).Status())

	// the stale order was cancelled alongside, the collected one untouched
	abandoned := uow.orders[stale.ID().String()]
	assert.Equal(t, order.StatusCancelled, abandoned.Status())
	assert.Equal(t, order.CancelledPaymentFailed, abandoned.CancellationReason())
	assert.Equal(t, order.StatusPending, uow.orders[collected.ID().String()].Status())

	// cancelling the abandoned checkout returned its two tracked units;
	// the collected order's stock stays consumed
	staleStock := uow.products[stale.Lines()[0].ProductID().String()]
	assert.Equal(t, 10, staleStock.StockQuantity())
	collectedStock := uow.products[collected.Lines()[0].ProductID().String()]
	assert.Equal(t, 8, collectedStock.StockQuantity())

	t.Run("zero cutoff is rejected", func(t *testing.T) {
		_, err := commands.NewCancelStalePaymentsCommand(time.Time{})
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

// paymentOf finds the payment created for the order at checkout.
func paymentOf(t *testing.T, uow *memUoW, placed *order.Order) *payment.Payment {
	t.Helper()
	for _, p := range uow.payments {
		if p.OrderID().IsEqual(placed.ID()) {
			return p
		}
	}
	t.Fatalf("no payment for order %s", placed.ID())
	return nil
}

// completeSeededPayment walks the order's payment to Completed.
func completeSeededPayment(t *testing.T, uow *memUoW, placed *order.Order) *payment.Payment {
	t.Helper()
	p := paymentOf(t, uow, placed)

	cmd, err := commands.NewCompletePaymentCommand(p.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewCompletePaymentCommandHandler(memPaymentUoWFactory{uow}).Handle(t.Context(), cmd))
	return uow.payments[p.ID().String()]
}
