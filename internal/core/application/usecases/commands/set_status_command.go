package commands

import (
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/guard"
)

var ErrSetStatusCommandIsNotConstructed = errors.New(
	"SetStatusCommand must be created via NewSetStatusCommand constructor",
)

// SetStatusCommand requests a manual status transition.
//
// Example:
//
//	cmd, err := NewSetStatusCommand(orderID, order.StatusProcessing, true)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // the order is not in a state that allows this move
//	}
type SetStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	notify  bool

	guard guard.ConstructorGuard
}

func NewSetStatusCommand(orderID kernel.UUID, status order.Status, notify bool) (SetStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return SetStatusCommand{}, err
	}
	return SetStatusCommand{
		orderID: orderID,
		status:  status,
		notify:  notify,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SetStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetStatusCommandIsNotConstructed)
}

func (c SetStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c SetStatusCommand) Status() order.Status { return c.status }
func (c SetStatusCommand) Notify() bool         { return c.notify }
