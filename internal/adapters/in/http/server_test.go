package http_test

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	api "quickgo/internal/adapters/in/http"
	"quickgo/internal/adapters/out/postgres"
	"quickgo/internal/adapters/out/postgres/directoryrepo"
	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/application/usecases/queries"
	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/product"
	"quickgo/internal/core/domain/model/restaurant"
	"quickgo/internal/core/domain/model/user"
)

type stubTracker struct{}

func (stubTracker) TrackAggregate(kernel.UUID, any) {}

type checkoutFactoryFunc func() commands.CheckoutUoW

func (f checkoutFactoryFunc) Create() commands.CheckoutUoW { return f() }

type fullFactoryFunc func() commands.UoW

func (f fullFactoryFunc) Create() commands.UoW { return f() }

// fixture is a wired server over an in-memory database with one open
// restaurant, one customer, and one product on the menu.
type fixture struct {
	echo         *echo.Echo
	restaurantID kernel.UUID
	customerID   kernel.UUID
	productID    kernel.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	location, err := kernel.NewGeoPoint(40.7128, -74.0060)
	require.NoError(t, err)
	r, err := restaurant.NewRestaurant(
		"Luigi's", "12 Mulberry St", location,
		decimal.NewFromInt(15), 20*time.Minute, 45*time.Minute)
	require.NoError(t, err)
	require.NoError(t, directoryrepo.NewGormRestaurantRepository(db, stubTracker{}).Add(t.Context(), r))

	c, err := user.NewCustomer("Dana", "+15550100")
	require.NoError(t, err)
	require.NoError(t, directoryrepo.NewGormCustomerRepository(db, stubTracker{}).Add(t.Context(), c))

	p, err := product.NewProduct(r.ID(), "Margherita", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	require.NoError(t, directoryrepo.NewGormProductRepository(db, stubTracker{}).Add(t.Context(), p))

	factory := postgres.NewGormUnitOfWorkFactory(db)
	checkout := checkoutFactoryFunc(func() commands.CheckoutUoW { return factory.Create() })
	full := fullFactoryFunc(func() commands.UoW { return factory.Create() })

	server := api.NewServer(api.Handlers{
		CreateOrder:        commands.NewCreateOrderCommandHandler(checkout),
		CancelOrder:        commands.NewCancelOrderCommandHandler(full),
		GetOrder:           queries.NewGetOrderQueryHandler(db),
		GetOrderStatistics: queries.NewGetOrderStatisticsQueryHandler(db),
		GetDelayedOrders:   queries.NewGetDelayedOrdersQueryHandler(db),
	})

	e := echo.New()
	server.RegisterRoutes(e)

	return fixture{
		echo:         e,
		restaurantID: r.ID(),
		customerID:   c.ID(),
		productID:    p.ID(),
	}
}

func (f fixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f fixture) createOrderBody() map[string]any {
	return map[string]any{
		"customer_id":      f.customerID.String(),
		"restaurant_id":    f.restaurantID.String(),
		"payment_method":   "CARD",
		"delivery_address": "221B Baker St",
		"dropoff":          map[string]any{"latitude": 40.7306, "longitude": -73.9866},
		"delivery_fee":     "2.50",
		"tip":              "1.00",
		"lines": []map[string]any{
			{"product_id": f.productID.String(), "quantity": 2},
		},
	}
}

func TestServer_CreateOrder(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, nethttp.MethodPost, "/api/v1/orders", f.createOrderBody())
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		Status      string `json:"status"`
		Total       string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	assert.NotEmpty(t, created.ID)
	assert.True(t, len(created.OrderNumber) > 3 && created.OrderNumber[:3] == "ORD")
	assert.Equal(t, "PENDING", created.Status)
	// 2 x 10.00 + 2.50 delivery + 1.00 tip
	total, err := decimal.NewFromString(created.Total)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("23.50")))

	detail := f.request(t, nethttp.MethodGet, "/api/v1/orders/"+created.ID, nil)
	require.Equal(t, nethttp.StatusOK, detail.Code, detail.Body.String())
}

func TestServer_CreateOrderRejectsMalformedIDs(t *testing.T) {
	f := newFixture(t)

	body := f.createOrderBody()
	body["customer_id"] = "not-a-uuid"

	rec := f.request(t, nethttp.MethodPost, "/api/v1/orders", body)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestServer_GetOrderNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, nethttp.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestServer_CancelOrderTwiceConflicts(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, nethttp.MethodPost, "/api/v1/orders", f.createOrderBody())
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	cancelBody := map[string]any{"reason": "CUSTOMER_REQUEST", "notes": "changed my mind"}

	first := f.request(t, nethttp.MethodPost, "/api/v1/orders/"+created.ID+"/cancel", cancelBody)
	assert.Equal(t, nethttp.StatusNoContent, first.Code, first.Body.String())

	second := f.request(t, nethttp.MethodPost, "/api/v1/orders/"+created.ID+"/cancel", cancelBody)
	assert.Equal(t, nethttp.StatusConflict, second.Code)
}

func TestServer_CancelOrderRejectsUnknownReason(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, nethttp.MethodPost,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/cancel",
		map[string]any{"reason": "BAD_REASON"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestServer_OrderStatistics(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, nethttp.MethodPost, "/api/v1/orders", f.createOrderBody())
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	stats := f.request(t, nethttp.MethodGet, "/api/v1/orders/statistics", nil)
	require.Equal(t, nethttp.StatusOK, stats.Code, stats.Body.String())

	var resp struct {
		TotalOrders    int            `json:"total_orders"`
		CountsByStatus map[string]int `json:"counts_by_status"`
	}
	require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalOrders)
	assert.Equal(t, 1, resp.CountsByStatus["PENDING"])
}

func TestServer_DelayedOrdersEmpty(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, nethttp.MethodGet, "/api/v1/orders/delayed", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
