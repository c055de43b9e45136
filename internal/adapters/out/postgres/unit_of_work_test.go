package postgres_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quickgo/internal/adapters/out/postgres"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/errs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	return db
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	dropoff, err := kernel.NewGeoPoint(40.7306, -73.9866)
	require.NoError(t, err)

	placed, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		order.PaymentMethodCash,
		"221B Baker St",
		dropoff,
		order.Charges{
			DeliveryFee: decimal.RequireFromString("2.50"),
			ServiceFee:  decimal.Zero,
			Tax:         decimal.Zero,
			Tip:         decimal.Zero,
			Discount:    decimal.Zero,
		},
		"",
	)
	require.NoError(t, err)

	line, err := order.NewLine(order.LineSpec{
		ProductID: kernel.NewUUID(),
		Name:      "Margherita",
		UnitPrice: decimal.RequireFromString("10.00"),
		Quantity:  1,
	})
	require.NoError(t, err)
	require.NoError(t, placed.AddLine(line))

	return placed
}

func TestGormUnitOfWork_CommitMakesChangesVisible(t *testing.T) {
	db := newTestDB(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)

	placed := newTestOrder(t)

	uow := factory.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.OrderRepository().Add(t.Context(), placed))
	require.NoError(t, uow.Commit(t.Context()))

	reader := factory.Create()
	restored, err := reader.OrderRepository().Get(t.Context(), placed.ID())
	require.NoError(t, err)
	assert.True(t, restored.IsEqual(placed))
}

func TestGormUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	db := newTestDB(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)

	placed := newTestOrder(t)

	uow := factory.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.OrderRepository().Add(t.Context(), placed))
	require.NoError(t, uow.Rollback(t.Context()))

	reader := factory.Create()
	_, err := reader.OrderRepository().Get(t.Context(), placed.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormUnitOfWork_TransactionLifecycle(t *testing.T) {
	db := newTestDB(t)
	factory := postgres.NewGormUnitOfWorkFactory(db)

	uow := factory.Create()

	// commit and rollback require an active transaction
	assert.ErrorIs(t, uow.Commit(t.Context()), gorm.ErrInvalidTransaction)
	assert.ErrorIs(t, uow.Rollback(t.Context()), gorm.ErrInvalidTransaction)

	require.NoError(t, uow.Begin(t.Context()))
	// Begin on an active transaction is a no-op
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.Commit(t.Context()))

	// the transaction is closed after commit
	assert.ErrorIs(t, uow.Rollback(t.Context()), gorm.ErrInvalidTransaction)
}
