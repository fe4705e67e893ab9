package commands

import (
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrCompletePickingCommandIsNotConstructed = errors.New(
	"CompletePickingCommand must be created via NewCompletePickingCommand constructor",
)

// CompletePickingCommand confirms that the listed products were picked.
// The list must cover every product of the order.
type CompletePickingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	picked  []string

	guard guard.ConstructorGuard
}

func NewCompletePickingCommand(orderID kernel.UUID, picked []string) (CompletePickingCommand, error) {
	var pickedErr error
	if len(picked) == 0 {
		pickedErr = errs.NewValueIsRequiredError("picked_items")
	}
	if err := errors.Join(orderID.Validate(), pickedErr); err != nil {
		return CompletePickingCommand{}, err
	}
	return CompletePickingCommand{
		orderID: orderID,
		picked:  append([]string(nil), picked...),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CompletePickingCommand) Validate() error {
	return c.guard.Validate(ErrCompletePickingCommandIsNotConstructed)
}

func (c CompletePickingCommand) OrderID() kernel.UUID { return c.orderID }

func (c CompletePickingCommand) PickedItems() []string {
	return append([]string(nil), c.picked...)
}
