package commands

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand hands a packed order to a carrier.
// Missing carrier or tracking number is reported by the aggregate as
// order.ErrMissingTrackingInfo, after the fulfillment state has been checked.
type DispatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	carrierID      string
	trackingNumber string
	trackingURL    string
	notify         bool

	guard guard.ConstructorGuard
}

func NewDispatchOrderCommand(
	orderID kernel.UUID,
	carrierID, trackingNumber, trackingURL string,
	notify bool,
) (DispatchOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return DispatchOrderCommand{}, err
	}
	return DispatchOrderCommand{
		orderID:        orderID,
		carrierID:      strings.TrimSpace(carrierID),
		trackingNumber: strings.TrimSpace(trackingNumber),
		trackingURL:    strings.TrimSpace(trackingURL),
		notify:         notify,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

func (c DispatchOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c DispatchOrderCommand) CarrierID() string      { return c.carrierID }
func (c DispatchOrderCommand) TrackingNumber() string { return c.trackingNumber }
func (c DispatchOrderCommand) TrackingURL() string    { return c.trackingURL }
func (c DispatchOrderCommand) Notify() bool           { return c.notify }
