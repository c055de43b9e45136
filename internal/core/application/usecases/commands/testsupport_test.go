package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/core/domain/model/product"
	"quickgo/internal/core/domain/model/restaurant"
	"quickgo/internal/core/domain/model/user"
	"quickgo/internal/core/ports"
	"quickgo/internal/pkg/errs"
)

// memUoW is an in-memory unit of work backing the handler tests. It keeps
// aggregates in maps keyed by id and counts transaction calls so tests can
// assert commit/rollback behavior.
type memUoW struct {
	orders      map[string]*order.Order
	deliveries  map[string]*delivery.Delivery
	payments    map[string]*payment.Payment
	restaurants map[string]*restaurant.Restaurant
	customers   map[string]*user.Customer
	drivers     map[string]*user.Driver
	products    map[string]*product.Product

	commits   int
	rollbacks int
}

func newMemUoW() *memUoW {
	return &memUoW{
		orders:      map[string]*order.Order{},
		deliveries:  map[string]*delivery.Delivery{},
		payments:    map[string]*payment.Payment{},
		restaurants: map[string]*restaurant.Restaurant{},
		customers:   map[string]*user.Customer{},
		drivers:     map[string]*user.Driver{},
		products:    map[string]*product.Product{},
	}
}

func (u *memUoW) Begin(context.Context) error    { return nil }
func (u *memUoW) Commit(context.Context) error   { u.commits++; return nil }
func (u *memUoW) Rollback(context.Context) error { u.rollbacks++; return nil }

func (u *memUoW) OrderRepository() ports.OrderRepository           { return memOrderRepo{u} }
func (u *memUoW) DeliveryRepository() ports.DeliveryRepository     { return memDeliveryRepo{u} }
func (u *memUoW) PaymentRepository() ports.PaymentRepository       { return memPaymentRepo{u} }
func (u *memUoW) RestaurantRepository() ports.RestaurantRepository { return memRestaurantRepo{u} }
func (u *memUoW) CustomerRepository() ports.CustomerRepository     { return memCustomerRepo{u} }
func (u *memUoW) DriverRepository() ports.DriverRepository         { return memDriverRepo{u} }
func (u *memUoW) ProductRepository() ports.ProductRepository       { return memProductRepo{u} }

// Factory adapters, one per unit of work group the handlers consume.

type memUoWFactory struct{ uow *memUoW }

func (f memUoWFactory) Create() commands.UoW { return f.uow }

type memOrderUoWFactory struct{ uow *memUoW }

func (f memOrderUoWFactory) Create() commands.OrderUoW { return f.uow }

type memDeliveryUoWFactory struct{ uow *memUoW }

func (f memDeliveryUoWFactory) Create() commands.DeliveryUoW { return f.uow }

type memCheckoutUoWFactory struct{ uow *memUoW }

func (f memCheckoutUoWFactory) Create() commands.CheckoutUoW { return f.uow }

type memDispatchUoWFactory struct{ uow *memUoW }

func (f memDispatchUoWFactory) Create() commands.DispatchUoW { return f.uow }

type memPaymentUoWFactory struct{ uow *memUoW }

func (f memPaymentUoWFactory) Create() commands.PaymentUoW { return f.uow }

type memOrderRepo struct{ uow *memUoW }

func (r memOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.uow.orders[o.ID().String()] = o
	return nil
}

func (r memOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.uow.orders[o.ID().String()] = o
	return nil
}

func (r memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.uow.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return o, nil
}

func (r memOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	for _, o := range r.uow.orders {
		if o.OrderNumber() == number {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderNumber", number)
}

type memDeliveryRepo struct{ uow *memUoW }

func (r memDeliveryRepo) Add(_ context.Context, d *delivery.Delivery) error {
	r.uow.deliveries[d.ID().String()] = d
	return nil
}

func (r memDeliveryRepo) Update(_ context.Context, d *delivery.Delivery) error {
	r.uow.deliveries[d.ID().String()] = d
	return nil
}

func (r memDeliveryRepo) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	d, ok := r.uow.deliveries[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("deliveryID", id)
	}
	return d, nil
}

func (r memDeliveryRepo) GetByOrderID(_ context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	for _, d := range r.uow.deliveries {
		if d.OrderID().IsEqual(orderID) {
			return d, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderID", orderID)
}

type memPaymentRepo struct{ uow *memUoW }

func (r memPaymentRepo) Add(_ context.Context, p *payment.Payment) error {
	r.uow.payments[p.ID().String()] = p
	return nil
}

func (r memPaymentRepo) Update(_ context.Context, p *payment.Payment) error {
	r.uow.payments[p.ID().String()] = p
	return nil
}

func (r memPaymentRepo) Get(_ context.Context, id kernel.UUID) (*payment.Payment, error) {
	p, ok := r.uow.payments[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("paymentID", id)
	}
	return p, nil
}

func (r memPaymentRepo) GetByOrderID(_ context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	for _, p := range r.uow.payments {
		if p.OrderID().IsEqual(orderID) {
			return p, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderID", orderID)
}

func (r memPaymentRepo) GetAllStalePending(
	_ context.Context, cutoff time.Time,
) ([]*payment.Payment, error) {
	var stale []*payment.Payment
	for _, p := range r.uow.payments {
		if p.Status() == payment.StatusPending && p.CreatedAt().Before(cutoff) {
			stale = append(stale, p)
		}
	}
	return stale, nil
}

type memRestaurantRepo struct{ uow *memUoW }

func (r memRestaurantRepo) Add(_ context.Context, a *restaurant.Restaurant) error {
	r.uow.restaurants[a.ID().String()] = a
	return nil
}

func (r memRestaurantRepo) Update(_ context.Context, a *restaurant.Restaurant) error {
	r.uow.restaurants[a.ID().String()] = a
	return nil
}

func (r memRestaurantRepo) Get(_ context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	a, ok := r.uow.restaurants[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("restaurantID", id)
	}
	return a, nil
}

func (r memRestaurantRepo) IncrementDeliveredStats(
	_ context.Context, id kernel.UUID, revenue decimal.Decimal,
) error {
	a, ok := r.uow.restaurants[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("restaurantID", id)
	}
	r.uow.restaurants[id.String()] = restaurant.RestoreRestaurant(restaurant.Snapshot{
		ID:              a.ID(),
		Name:            a.Name(),
		Address:         a.Address(),
		Location:        a.Location(),
		CommissionRate:  a.CommissionRate(),
		PreparationTime: a.PreparationTime(),
		MaxDeliveryTime: a.MaxDeliveryTime(),
		IsOpen:          a.IsOpen(),
		TotalOrders:     a.TotalOrders() + 1,
		TotalRevenue:    a.TotalRevenue().Add(revenue),
	})
	return nil
}

type memCustomerRepo struct{ uow *memUoW }

func (r memCustomerRepo) Add(_ context.Context, c *user.Customer) error {
	r.uow.customers[c.ID().String()] = c
	return nil
}

func (r memCustomerRepo) Update(_ context.Context, c *user.Customer) error {
	r.uow.customers[c.ID().String()] = c
	return nil
}

func (r memCustomerRepo) Get(_ context.Context, id kernel.UUID) (*user.Customer, error) {
	c, ok := r.uow.customers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("customerID", id)
	}
	return c, nil
}

func (r memCustomerRepo) IncrementDeliveredStats(
	_ context.Context, id kernel.UUID, spent decimal.Decimal,
) error {
	c, ok := r.uow.customers[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("customerID", id)
	}
	r.uow.customers[id.String()] = user.RestoreCustomer(user.CustomerSnapshot{
		ID:          c.ID(),
		Name:        c.Name(),
		Phone:       c.Phone(),
		TotalOrders: c.TotalOrders() + 1,
		TotalSpent:  c.TotalSpent().Add(spent),
	})
	return nil
}

type memDriverRepo struct{ uow *memUoW }

func (r memDriverRepo) Add(_ context.Context, d *user.Driver) error {
	r.uow.drivers[d.ID().String()] = d
	return nil
}

func (r memDriverRepo) Update(_ context.Context, d *user.Driver) error {
	r.uow.drivers[d.ID().String()] = d
	return nil
}

func (r memDriverRepo) Get(_ context.Context, id kernel.UUID) (*user.Driver, error) {
	d, ok := r.uow.drivers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driverID", id)
	}
	return d, nil
}

func (r memDriverRepo) IncrementDeliveredStats(
	_ context.Context, id kernel.UUID, earnings decimal.Decimal,
) error {
	d, ok := r.uow.drivers[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("driverID", id)
	}
	r.uow.drivers[id.String()] = user.RestoreDriver(user.DriverSnapshot{
		ID:              d.ID(),
		Name:            d.Name(),
		Phone:           d.Phone(),
		VehicleType:     d.VehicleType(),
		ApprovalStatus:  d.ApprovalStatus(),
		IsAvailable:     d.IsAvailable(),
		TotalDeliveries: d.TotalDeliveries() + 1,
		TotalEarnings:   d.TotalEarnings().Add(earnings),
		Rating:          d.Rating(),
	})
	return nil
}

func (r memDriverRepo) SetAvailability(_ context.Context, id kernel.UUID, available bool) error {
	d, ok := r.uow.drivers[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("driverID", id)
	}
	d.SetAvailable(available)
	return nil
}

type memProductRepo struct{ uow *memUoW }

func (r memProductRepo) Add(_ context.Context, p *product.Product) error {
	r.uow.products[p.ID().String()] = p
	return nil
}

func (r memProductRepo) Update(_ context.Context, p *product.Product) error {
	r.uow.products[p.ID().String()] = p
	return nil
}

func (r memProductRepo) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	p, ok := r.uow.products[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("productID", id)
	}
	return p, nil
}

// Seed helpers.

func seedRestaurant(t *testing.T, uow *memUoW) *restaurant.Restaurant {
	t.Helper()
	location, err := kernel.NewGeoPoint(40.7128, -74.0060)
	require.NoError(t, err)
	r, err := restaurant.NewRestaurant(
		"Luigi's", "12 Mulberry St", location,
		decimal.NewFromInt(restaurant.DefaultCommissionRate),
		20*time.Minute, 45*time.Minute,
	)
	require.NoError(t, err)
	uow.restaurants[r.ID().String()] = r
	return r
}

func seedCustomer(t *testing.T, uow *memUoW) *user.Customer {
	t.Helper()
	c, err := user.NewCustomer("Dana", "+15550100")
	require.NoError(t, err)
	uow.customers[c.ID().String()] = c
	return c
}

func seedDriver(t *testing.T, uow *memUoW) *user.Driver {
	t.Helper()
	d, err := user.NewDriver("Riley", "+15550101", user.VehicleBike)
	require.NoError(t, err)
	d.Approve()
	d.SetAvailable(true)
	uow.drivers[d.ID().String()] = d
	return d
}

func seedProduct(t *testing.T, uow *memUoW, r *restaurant.Restaurant, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(r.ID(), "Margherita", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	require.NoError(t, p.EnableInventoryTracking(stock))
	uow.products[p.ID().String()] = p
	return p
}

func standardCharges() order.Charges {
	return order.Charges{
		DeliveryFee: decimal.RequireFromString("2.50"),
		ServiceFee:  decimal.RequireFromString("0.50"),
		Tax:         decimal.Zero,
		Tip:         decimal.RequireFromString("1.00"),
		Discount:    decimal.Zero,
	}
}

func mustDropoff(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(40.7306, -73.9866)
	require.NoError(t, err)
	return point
}

// placeOrder runs the checkout handler against seeded data and returns the
// created order. Two units of the seeded product are requested, so the totals
// match the worked example: subtotal 20.00, total 24.00.
func placeOrder(t *testing.T, uow *memUoW) *order.Order {
	t.Helper()
	r := seedRestaurant(t, uow)
	c := seedCustomer(t, uow)
	p := seedProduct(t, uow, r, 10)

	cmd, err := commands.NewCreateOrderCommand(
		c.ID(), r.ID(), order.PaymentMethodCard,
		"221B Baker St", mustDropoff(t), standardCharges(), "",
		[]commands.CreateOrderLine{{ProductID: p.ID(), Quantity: 2}},
	)
	require.NoError(t, err)

	handler := commands.NewCreateOrderCommandHandler(memCheckoutUoWFactory{uow})
	placed, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return placed
}

// advanceOrderToReady walks a freshly placed order to Ready and returns the
// created delivery.
func advanceOrderToReady(t *testing.T, uow *memUoW, placed *order.Order) *delivery.Delivery {
	t.Helper()

	confirmCmd, err := commands.NewConfirmOrderCommand(placed.ID(), nil)
	require.NoError(t, err)
	require.NoError(t, commands.NewConfirmOrderCommandHandler(memCheckoutUoWFactory{uow}).Handle(t.Context(), confirmCmd))

	prepCmd, err := commands.NewStartPreparingOrderCommand(placed.ID(), nil)
	require.NoError(t, err)
	require.NoError(t, commands.NewStartPreparingOrderCommandHandler(memOrderUoWFactory{uow}).Handle(t.Context(), prepCmd))

	readyCmd, err := commands.NewMarkOrderReadyCommand(placed.ID(), nil, "")
	require.NoError(t, err)
	created, err := commands.NewMarkOrderReadyCommandHandler(memUoWFactory{uow}).Handle(t.Context(), readyCmd)
	require.NoError(t, err)
	return created
}

// assignSeededDriver assigns a fresh approved driver to the delivery.
func assignSeededDriver(t *testing.T, uow *memUoW, d *delivery.Delivery) *user.Driver {
	t.Helper()
	driver := seedDriver(t, uow)

	cmd, err := commands.NewAssignDriverCommand(d.ID(), driver.ID())
	require.NoError(t, err)
	require.NoError(t, commands.NewAssignDriverCommandHandler(memDispatchUoWFactory{uow}).Handle(t.Context(), cmd))
	return driver
}
