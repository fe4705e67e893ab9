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

var ErrCompletePackingCommandIsNotConstructed = errors.New(
	"CompletePackingCommand must be created via NewCompletePackingCommand constructor",
)

// CompletePackingCommand records the parcel for a picked order.
type CompletePackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	packed  []string
	pkg     order.Package

	guard guard.ConstructorGuard
}

// NewCompletePackingCommand validates identity and package measurements.
// An empty packed list is passed through so the aggregate reports ErrIncompleteSelection.
func NewCompletePackingCommand(orderID kernel.UUID, packed []string, pkg order.Package) (CompletePackingCommand, error) {
	if err := errors.Join(orderID.Validate(), pkg.Validate()); err != nil {
		return CompletePackingCommand{}, err
	}
	return CompletePackingCommand{
		orderID: orderID,
		packed:  append([]string(nil), packed...),
		pkg:     pkg,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CompletePackingCommand) Validate() error {
	return c.guard.Validate(ErrCompletePackingCommandIsNotConstructed)
}

func (c CompletePackingCommand) OrderID() kernel.UUID   { return c.orderID }
func (c CompletePackingCommand) Package() order.Package { return c.pkg }

func (c CompletePackingCommand) PackedItems() []string {
	return append([]string(nil), c.packed...)
}

// CompletePackingCommandHandler moves fulfillment from picked to packed.
type CompletePackingCommandHandler struct {
	mutator orderMutator
}

func NewCompletePackingCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) CompletePackingCommandHandler {
	return CompletePackingCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h CompletePackingCommandHandler) Handle(ctx context.Context, cmd CompletePackingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "CompletePacking", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.CompletePacking(cmd.PackedItems(), cmd.Package(), now)
	})
}
