package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrAddItemCommandIsNotConstructed = errors.New(
	"AddItemCommand must be created via NewAddItemCommand constructor",
)

// AddItemCommand adds a catalog product to an existing order.
type AddItemCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	productID string
	quantity  int

	guard guard.ConstructorGuard
}

func NewAddItemCommand(orderID kernel.UUID, productID string, quantity int) (AddItemCommand, error) {
	productID = strings.TrimSpace(productID)
	var productErr, quantityErr error
	if productID == "" {
		productErr = errs.NewValueIsRequiredError("product_id")
	}
	if quantity < 1 {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt32)
	}
	if err := errors.Join(orderID.Validate(), productErr, quantityErr); err != nil {
		return AddItemCommand{}, err
	}
	return AddItemCommand{
		orderID:   orderID,
		productID: productID,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddItemCommand) Validate() error {
	return c.guard.Validate(ErrAddItemCommandIsNotConstructed)
}

func (c AddItemCommand) OrderID() kernel.UUID { return c.orderID }
func (c AddItemCommand) ProductID() string    { return c.productID }
func (c AddItemCommand) Quantity() int        { return c.quantity }

// AddItemCommandHandler prices the product from the catalog before taking the
// order lock, then appends it.
type AddItemCommandHandler struct {
	mutator orderMutator
	catalog ports.ProductCatalog
}

func NewAddItemCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	catalog ports.ProductCatalog,
) AddItemCommandHandler {
	return AddItemCommandHandler{mutator: newOrderMutator(uowFactory, locker), catalog: catalog}
}

func (h AddItemCommandHandler) Handle(ctx context.Context, cmd AddItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	product, err := h.catalog.Product(ctx, cmd.ProductID())
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"product_id",
			fmt.Errorf("product %s is not available", product.ID),
		)
	}
	item, err := order.NewItem(product.ID, product.Name, product.SKU, product.Price, cmd.Quantity(), product.ImageRef)
	if err != nil {
		return nil, err
	}

	return h.mutator.mutate(ctx, "AddItem", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.AddItem(item, now)
	})
}
