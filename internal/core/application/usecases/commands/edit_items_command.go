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

var ErrEditItemsCommandIsNotConstructed = errors.New(
	"EditItemsCommand must be created via NewEditItemsCommand constructor",
)

// EditItemsCommand replaces the line items, discount and shipping cost.
type EditItemsCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	items        []order.Item
	discount     float64
	shippingCost float64

	guard guard.ConstructorGuard
}

// NewEditItemsCommand checks identity only; item rules, including
// order.ErrEmptyOrder, are enforced by the aggregate.
func NewEditItemsCommand(
	orderID kernel.UUID,
	items []order.Item,
	discount, shippingCost float64,
) (EditItemsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return EditItemsCommand{}, err
	}
	return EditItemsCommand{
		orderID:      orderID,
		items:        append([]order.Item(nil), items...),
		discount:     discount,
		shippingCost: shippingCost,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c EditItemsCommand) Validate() error {
	return c.guard.Validate(ErrEditItemsCommandIsNotConstructed)
}

func (c EditItemsCommand) OrderID() kernel.UUID  { return c.orderID }
func (c EditItemsCommand) Items() []order.Item   { return append([]order.Item(nil), c.items...) }
func (c EditItemsCommand) Discount() float64     { return c.discount }
func (c EditItemsCommand) ShippingCost() float64 { return c.shippingCost }

type EditItemsCommandHandler struct {
	mutator orderMutator
}

func NewEditItemsCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) EditItemsCommandHandler {
	return EditItemsCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h EditItemsCommandHandler) Handle(ctx context.Context, cmd EditItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "EditItems", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.EditItems(cmd.Items(), cmd.Discount(), cmd.ShippingCost(), now)
	})
}
