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

var ErrAddNoteCommandIsNotConstructed = errors.New(
	"AddNoteCommand must be created via NewAddNoteCommand constructor",
)

// AddNoteCommand attaches a note to an order.
type AddNoteCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	content    string
	visibility order.Visibility
	notify     bool

	guard guard.ConstructorGuard
}

func NewAddNoteCommand(
	orderID kernel.UUID,
	content string,
	visibility order.Visibility,
	notifyCustomer bool,
) (AddNoteCommand, error) {
	if err := errors.Join(orderID.Validate(), visibility.Validate()); err != nil {
		return AddNoteCommand{}, err
	}
	return AddNoteCommand{
		orderID:    orderID,
		content:    content,
		visibility: visibility,
		notify:     notifyCustomer,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AddNoteCommand) Validate() error {
	return c.guard.Validate(ErrAddNoteCommandIsNotConstructed)
}

func (c AddNoteCommand) OrderID() kernel.UUID         { return c.orderID }
func (c AddNoteCommand) Content() string              { return c.content }
func (c AddNoteCommand) Visibility() order.Visibility { return c.visibility }
func (c AddNoteCommand) NotifyCustomer() bool         { return c.notify }

type AddNoteCommandHandler struct {
	mutator orderMutator
}

func NewAddNoteCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) AddNoteCommandHandler {
	return AddNoteCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h AddNoteCommandHandler) Handle(ctx context.Context, cmd AddNoteCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "AddNote", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.AddNote(cmd.Content(), cmd.Visibility(), cmd.NotifyCustomer(), now)
	})
}
