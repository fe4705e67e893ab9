package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/guard"
)

var ErrUpdateTrackingCommandIsNotConstructed = errors.New(
	"UpdateTrackingCommand must be created via NewUpdateTrackingCommand constructor",
)

// UpdateTrackingCommand changes the tracking reference of an order.
type UpdateTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	carrierID      string
	trackingNumber string
	trackingURL    string
	notify         bool

	guard guard.ConstructorGuard
}

func NewUpdateTrackingCommand(
	orderID kernel.UUID,
	carrierID, trackingNumber, trackingURL string,
	notify bool,
) (UpdateTrackingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return UpdateTrackingCommand{}, err
	}
	carrierID, trackingNumber = strings.TrimSpace(carrierID), strings.TrimSpace(trackingNumber)
	if carrierID == "" || trackingNumber == "" {
		return UpdateTrackingCommand{}, order.ErrMissingTrackingInfo
	}
	return UpdateTrackingCommand{
		orderID:        orderID,
		carrierID:      carrierID,
		trackingNumber: trackingNumber,
		trackingURL:    strings.TrimSpace(trackingURL),
		notify:         notify,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateTrackingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTrackingCommandIsNotConstructed)
}

func (c UpdateTrackingCommand) OrderID() kernel.UUID   { return c.orderID }
func (c UpdateTrackingCommand) CarrierID() string      { return c.carrierID }
func (c UpdateTrackingCommand) TrackingNumber() string { return c.trackingNumber }
func (c UpdateTrackingCommand) TrackingURL() string    { return c.trackingURL }
func (c UpdateTrackingCommand) Notify() bool           { return c.notify }

type UpdateTrackingCommandHandler struct {
	mutator  orderMutator
	resolver order.TrackingResolver
}

func NewUpdateTrackingCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	resolver order.TrackingResolver,
) UpdateTrackingCommandHandler {
	return UpdateTrackingCommandHandler{mutator: newOrderMutator(uowFactory, locker), resolver: resolver}
}

func (h UpdateTrackingCommandHandler) Handle(ctx context.Context, cmd UpdateTrackingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "UpdateTracking", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.UpdateTracking(cmd.CarrierID(), cmd.TrackingNumber(), cmd.TrackingURL(), h.resolver, cmd.Notify(), now)
	})
}
