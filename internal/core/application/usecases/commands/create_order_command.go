package commands

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/guard"

	"github.com/oklog/ulid/v2"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand turns a priced checkout cart into a pending order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(order.Draft{
//	    ID:       kernel.NewUUID(),
//	    Customer: order.Customer{Name: "Ada", Email: "ada@example.com"},
//	    Items:    items,
//	})
//	o, err := handler.Handle(ctx, cmd) // o.Number() is generated when empty
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	draft order.Draft

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks identity and cart presence. An empty order
// number is replaced with "ORD-" followed by a ULID.
func NewCreateOrderCommand(draft order.Draft) (CreateOrderCommand, error) {
	var itemsErr error
	if len(draft.Items) == 0 {
		itemsErr = order.ErrEmptyOrder
	}
	if err := errors.Join(draft.ID.Validate(), draft.Customer.Validate(), itemsErr); err != nil {
		return CreateOrderCommand{}, err
	}

	draft.Number = strings.TrimSpace(draft.Number)
	if draft.Number == "" {
		draft.Number = "ORD-" + ulid.Make().String()
	}
	draft.Items = append([]order.Item(nil), draft.Items...)

	return CreateOrderCommand{draft: draft, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Draft returns a copy of the cart.
func (c CreateOrderCommand) Draft() order.Draft {
	d := c.draft
	d.Items = append([]order.Item(nil), c.draft.Items...)
	return d
}
