package commands

import (
	"context"
	"errors"
	"fmt"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/pkg/errs"
	"quickgo/internal/pkg/guard"
)

// ErrCreateOrderCommandIsNotConstructed is returned when the command was not
// created via NewCreateOrderCommand.
var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderLine is one requested item at checkout. Catalog data (name,
// price, inventory flag) is snapshotted from the product inside the handler,
// never taken from the client.
type CreateOrderLine struct {
	ProductID kernel.UUID
	Quantity  int
	Options   []order.Option
	Extras    []order.Extra
	Notes     string
}

// CreateOrderCommand represents a checkout request: who is ordering, from
// which restaurant, what items, and how they will pay.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID          kernel.UUID
	restaurantID        kernel.UUID
	paymentMethod       order.PaymentMethod
	deliveryAddress     string
	dropoff             kernel.GeoPoint
	charges             order.Charges
	specialInstructions string
	lines               []CreateOrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a checkout command. It validates the
// references, the payment method, the destination, and that at least one
// line with a positive quantity was requested.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	paymentMethod order.PaymentMethod,
	deliveryAddress string,
	dropoff kernel.GeoPoint,
	charges order.Charges,
	specialInstructions string,
	lines []CreateOrderLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		paymentMethod:       paymentMethod,
		deliveryAddress:     deliveryAddress,
		dropoff:             dropoff,
		charges:             charges,
		specialInstructions: specialInstructions,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setRestaurantID(restaurantID),
		paymentMethod.Validate(),
		dropoff.Validate(),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if deliveryAddress == "" {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("deliveryAddress")
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RestaurantID returns the restaurant the order is placed with.
func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Lines returns the requested items.
func (c CreateOrderCommand) Lines() []CreateOrderLine {
	return c.lines
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []CreateOrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity", fmt.Errorf("%d is not greater than 0", line.Quantity))
		}
	}

	c.lines = lines
	return nil
}

// CreateOrderCommandHandler handles the checkout transaction: it snapshots
// catalog data into order lines, reduces tracked stock, and creates the
// pending payment, all atomically.
type CreateOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for checkout operations.
func NewCreateOrderCommandHandler(uowFactory CheckoutUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the checkout command and returns the created order.
// The restaurant must be open and every requested product must belong to it,
// be available, and have sufficient stock.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	restaurant, err := uow.RestaurantRepository().Get(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpen() {
		return nil, errs.NewPreconditionFailedError("restaurant is not accepting orders")
	}

	customer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(
		customer.ID(),
		restaurant.ID(),
		cmd.paymentMethod,
		cmd.deliveryAddress,
		cmd.dropoff,
		cmd.charges,
		cmd.specialInstructions,
	)
	if err != nil {
		return nil, err
	}

	productRepo := uow.ProductRepository()
	for _, requested := range cmd.Lines() {
		product, err := productRepo.Get(ctx, requested.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.RestaurantID().IsEqual(restaurant.ID()) {
			return nil, errs.NewPreconditionFailedErrorWithCause(
				"product does not belong to the restaurant",
				fmt.Errorf("product %s belongs to restaurant %s", product.ID(), product.RestaurantID()))
		}
		if !product.IsAvailable() {
			return nil, errs.NewPreconditionFailedErrorWithCause(
				"product is not available",
				fmt.Errorf("product %s is disabled", product.ID()))
		}

		if err = product.ReduceStock(requested.Quantity); err != nil {
			return nil, err
		}
		if err = productRepo.Update(ctx, product); err != nil {
			return nil, err
		}

		line, err := order.NewLine(order.LineSpec{
			ProductID:      product.ID(),
			Name:           product.Name(),
			Description:    product.Description(),
			ImageURL:       product.ImageURL(),
			UnitPrice:      product.Price(),
			Quantity:       requested.Quantity,
			Options:        requested.Options,
			Extras:         requested.Extras,
			Notes:          requested.Notes,
			TrackInventory: product.TracksInventory(),
		})
		if err != nil {
			return nil, err
		}
		if err = newOrder.AddLine(line); err != nil {
			return nil, err
		}
	}

	newPayment, err := payment.NewPayment(payment.Details{
		OrderID:        newOrder.ID(),
		OrderNumber:    newOrder.OrderNumber(),
		Method:         newOrder.PaymentMethod(),
		Amount:         newOrder.Total(),
		Subtotal:       newOrder.Subtotal(),
		DeliveryFee:    newOrder.DeliveryFee(),
		Tip:            newOrder.Tip(),
		CommissionRate: restaurant.CommissionRate(),
	})
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}
	if err = uow.PaymentRepository().Add(ctx, newPayment); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return newOrder, nil
}
