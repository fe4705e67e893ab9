package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

// DispatchOrderCommandHandler completes fulfillment and ships the order.
//
// Example:
//
//	handler := NewDispatchOrderCommandHandler(uowFactory, locker, services.NewCarrierResolver())
//	cmd, _ := NewDispatchOrderCommand(orderID, "auspost", "ABC123", "", true)
//	o, err := handler.Handle(ctx, cmd)
//	// o.Status() == order.StatusShipped, shipping_confirmation queued in the outbox
type DispatchOrderCommandHandler struct {
	mutator  orderMutator
	resolver order.TrackingResolver
}

func NewDispatchOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	resolver order.TrackingResolver,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{mutator: newOrderMutator(uowFactory, locker), resolver: resolver}
}

func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "DispatchOrder", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.Dispatch(cmd.CarrierID(), cmd.TrackingNumber(), cmd.TrackingURL(), h.resolver, cmd.Notify(), now)
	})
}
