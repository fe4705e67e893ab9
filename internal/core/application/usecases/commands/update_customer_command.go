package commands

import (
	"context"
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/guard"
)

var ErrUpdateCustomerCommandIsNotConstructed = errors.New(
	"UpdateCustomerCommand must be created via NewUpdateCustomerCommand constructor",
)

// UpdateCustomerCommand edits the customer and address snapshots of one order.
// Nothing is synchronised back to a customer directory.
type UpdateCustomerCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	customer order.Customer
	shipping order.Address
	billing  order.Address

	guard guard.ConstructorGuard
}

func NewUpdateCustomerCommand(
	orderID kernel.UUID,
	customer order.Customer,
	shipping, billing order.Address,
) (UpdateCustomerCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		customer.Validate(),
		shipping.Validate("shipping_address"),
		billing.Validate("billing_address"),
	); err != nil {
		return UpdateCustomerCommand{}, err
	}
	return UpdateCustomerCommand{
		orderID:  orderID,
		customer: customer,
		shipping: shipping,
		billing:  billing,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCustomerCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCustomerCommandIsNotConstructed)
}

func (c UpdateCustomerCommand) OrderID() kernel.UUID           { return c.orderID }
func (c UpdateCustomerCommand) Customer() order.Customer       { return c.customer }
func (c UpdateCustomerCommand) ShippingAddress() order.Address { return c.shipping }
func (c UpdateCustomerCommand) BillingAddress() order.Address  { return c.billing }

type UpdateCustomerCommandHandler struct {
	mutator orderMutator
}

func NewUpdateCustomerCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) UpdateCustomerCommandHandler {
	return UpdateCustomerCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h UpdateCustomerCommandHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "UpdateCustomer", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.UpdateCustomer(cmd.Customer(), cmd.ShippingAddress(), cmd.BillingAddress(), now)
	})
}
