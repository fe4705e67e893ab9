package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

// CompletePickingCommandHandler moves fulfillment from unfulfilled to picked.
type CompletePickingCommandHandler struct {
	mutator orderMutator
}

func NewCompletePickingCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) CompletePickingCommandHandler {
	return CompletePickingCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

// Handle returns order.ErrIncompleteSelection when products are missing from the list.
func (h CompletePickingCommandHandler) Handle(ctx context.Context, cmd CompletePickingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "CompletePicking", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.CompletePicking(cmd.PickedItems(), now)
	})
}
