package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

// RefundCommandHandler records refunds. Restock signals go through the outbox,
// so an unavailable inventory service never fails the refund.
type RefundCommandHandler struct {
	mutator orderMutator
}

func NewRefundCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) RefundCommandHandler {
	return RefundCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h RefundCommandHandler) Handle(ctx context.Context, cmd RefundCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "Refund", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.Refund(cmd.Request(), now)
	})
}
