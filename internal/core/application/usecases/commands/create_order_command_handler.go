package commands

import (
	"context"

	"orderengine/internal/core/domain/model/order"
)

// CreateOrderCommandHandler persists new orders with the configured tax rate.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	taxRate    float64
	clock      Clock
}

// NewCreateOrderCommandHandler requires the tenant tax rate captured on every new order.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, taxRate float64) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory, taxRate: taxRate, clock: systemClock}
}

// Handle returns the created order, or ports.ErrOrderAlreadyExists for a taken number.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	draft := cmd.Draft()
	draft.TaxRate = h.taxRate
	o, err := order.NewOrder(draft, h.clock())
	if err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "CreateOrder", o.ID())
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
