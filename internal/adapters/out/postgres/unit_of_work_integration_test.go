package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quickgo/internal/adapters/out/postgres"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/core/domain/model/restaurant"
	"quickgo/internal/core/domain/model/user"
	"quickgo/internal/core/ports"
)

// UnitOfWorkIntegrationTestSuite verifies transactional behavior against a
// real PostgreSQL instance, including the row locks the SQLite tests cannot
// exercise.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (s *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(postgres.Migrate(db))
}

func (s *UnitOfWorkIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(`
		TRUNCATE TABLE orders, order_lines, order_status_history,
			deliveries, delivery_status_history,
			payments, refunds, payment_status_history,
			restaurants, customers, drivers, products
	`).Error)
	s.factory = postgres.NewGormUnitOfWorkFactory(s.db)
}

func (s *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *UnitOfWorkIntegrationTestSuite) TestCheckoutCommitsAcrossRepositories() {
	ctx := context.Background()

	r := s.seedRestaurant(ctx)
	c := s.seedCustomer(ctx)

	placed := s.newOrder(c.ID(), r.ID())
	paid, err := payment.NewPayment(payment.Details{
		OrderID:        placed.ID(),
		OrderNumber:    placed.OrderNumber(),
		Method:         placed.PaymentMethod(),
		Amount:         placed.Total(),
		Subtotal:       placed.Subtotal(),
		DeliveryFee:    placed.DeliveryFee(),
		Tip:            placed.Tip(),
		CommissionRate: r.CommissionRate(),
		Currency:       "USD",
	})
	s.Require().NoError(err)

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, placed))
	s.Require().NoError(uow.PaymentRepository().Add(ctx, paid))
	s.Require().NoError(uow.Commit(ctx))

	reader := s.factory.Create()
	restoredOrder, err := reader.OrderRepository().Get(ctx, placed.ID())
	s.Require().NoError(err)
	s.True(restoredOrder.IsEqual(placed))
	s.Len(restoredOrder.Lines(), 1)

	restoredPayment, err := reader.PaymentRepository().GetByOrderID(ctx, placed.ID())
	s.Require().NoError(err)
	s.Equal(payment.StatusPending, restoredPayment.Status())
	s.True(restoredPayment.Amount().Equal(placed.Total()))
}

func (s *UnitOfWorkIntegrationTestSuite) TestRollbackLeavesNoPartialWrites() {
	ctx := context.Background()

	r := s.seedRestaurant(ctx)
	c := s.seedCustomer(ctx)
	placed := s.newOrder(c.ID(), r.ID())

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, placed))
	s.Require().NoError(uow.Rollback(ctx))

	var count int64
	s.Require().NoError(s.db.Table("orders").Count(&count).Error)
	s.Zero(count)
	s.Require().NoError(s.db.Table("order_lines").Count(&count).Error)
	s.Zero(count)
}

func (s *UnitOfWorkIntegrationTestSuite) TestRowLockSerializesDriverAssignment() {
	ctx := context.Background()

	d, err := user.NewDriver("Riley", "+15550101", user.VehicleBike)
	s.Require().NoError(err)
	d.Approve()
	d.SetAvailable(true)
	s.addInOwnTx(ctx, func(uow ports.UnitOfWork) error {
		return uow.DriverRepository().Add(ctx, d)
	})

	// the first transaction locks the driver row
	first := s.factory.Create()
	s.Require().NoError(first.Begin(ctx))
	locked, err := first.DriverRepository().Get(ctx, d.ID())
	s.Require().NoError(err)
	s.True(locked.IsAvailable())
	s.Require().NoError(first.DriverRepository().SetAvailability(ctx, d.ID(), false))

	// a second transaction blocks on the same row until the first commits
	secondDone := make(chan *user.Driver, 1)
	go func() {
		second := s.factory.Create()
		if beginErr := second.Begin(ctx); beginErr != nil {
			secondDone <- nil
			return
		}
		observed, getErr := second.DriverRepository().Get(ctx, d.ID())
		_ = second.Commit(ctx)
		if getErr != nil {
			secondDone <- nil
			return
		}
		secondDone <- observed
	}()

	select {
	case <-secondDone:
		s.Fail("second transaction acquired the locked row before commit")
	case <-time.After(200 * time.Millisecond):
	}

	s.Require().NoError(first.Commit(ctx))

	select {
	case observed := <-secondDone:
		s.Require().NotNil(observed)
		s.False(observed.IsAvailable(), "second transaction must see the committed state")
	case <-time.After(5 * time.Second):
		s.Fail("second transaction never finished after the lock was released")
	}
}

func (s *UnitOfWorkIntegrationTestSuite) TestStatisticsIncrementsAreAtomic() {
	ctx := context.Background()

	r := s.seedRestaurant(ctx)

	revenue := decimal.RequireFromString("24.00")
	for range 3 {
		s.addInOwnTx(ctx, func(uow ports.UnitOfWork) error {
			return uow.RestaurantRepository().IncrementDeliveredStats(ctx, r.ID(), revenue)
		})
	}

	restored, err := s.factory.Create().RestaurantRepository().Get(ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(3, restored.TotalOrders())
	s.True(restored.TotalRevenue().Equal(decimal.RequireFromString("72.00")))
}

func (s *UnitOfWorkIntegrationTestSuite) addInOwnTx(ctx context.Context, op func(ports.UnitOfWork) error) {
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(op(uow))
	s.Require().NoError(uow.Commit(ctx))
}

func (s *UnitOfWorkIntegrationTestSuite) seedRestaurant(ctx context.Context) *restaurant.Restaurant {
	location, err := kernel.NewGeoPoint(40.7128, -74.0060)
	s.Require().NoError(err)
	r, err := restaurant.NewRestaurant(
		"Luigi's", "12 Mulberry St", location,
		decimal.NewFromInt(15), 20*time.Minute, 45*time.Minute)
	s.Require().NoError(err)

	s.addInOwnTx(ctx, func(uow ports.UnitOfWork) error {
		return uow.RestaurantRepository().Add(ctx, r)
	})
	return r
}

func (s *UnitOfWorkIntegrationTestSuite) seedCustomer(ctx context.Context) *user.Customer {
	c, err := user.NewCustomer("Dana", "+15550100")
	s.Require().NoError(err)

	s.addInOwnTx(ctx, func(uow ports.UnitOfWork) error {
		return uow.CustomerRepository().Add(ctx, c)
	})
	return c
}

func (s *UnitOfWorkIntegrationTestSuite) newOrder(customerID, restaurantID kernel.UUID) *order.Order {
	dropoff, err := kernel.NewGeoPoint(40.7306, -73.9866)
	s.Require().NoError(err)

	placed, err := order.NewOrder(
		customerID,
		restaurantID,
		order.PaymentMethodCard,
		"221B Baker St",
		dropoff,
		order.Charges{
			DeliveryFee: decimal.RequireFromString("2.50"),
			ServiceFee:  decimal.RequireFromString("0.50"),
			Tax:         decimal.Zero,
			Tip:         decimal.RequireFromString("1.00"),
			Discount:    decimal.Zero,
		},
		"",
	)
	s.Require().NoError(err)

	line, err := order.NewLine(order.LineSpec{
		ProductID: kernel.NewUUID(),
		Name:      "Margherita",
		UnitPrice: decimal.RequireFromString("10.00"),
		Quantity:  2,
	})
	s.Require().NoError(err)
	s.Require().NoError(placed.AddLine(line))

	return placed
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
