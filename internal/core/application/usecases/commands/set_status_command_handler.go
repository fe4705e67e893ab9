package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

// SetStatusCommandHandler applies manual status transitions.
type SetStatusCommandHandler struct {
	mutator orderMutator
}

func NewSetStatusCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) SetStatusCommandHandler {
	return SetStatusCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

// Handle returns the updated order, or *order.TransitionError for an illegal edge.
func (h SetStatusCommandHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "SetStatus", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.SetStatus(cmd.Status(), cmd.Notify(), now)
	})
}
