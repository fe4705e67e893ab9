package commands

import (
	"errors"
	"math"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrRefundCommandIsNotConstructed = errors.New(
	"RefundCommand must be created via NewRefundCommand constructor",
)

// MaxRefundReasonLength bounds the free-text reason.
const MaxRefundReasonLength = 500

// RefundCommand returns money to the customer, optionally restocking items.
//
// Example:
//
//	cmd, _ := NewRefundCommand(orderID, 50, "damaged in transit", nil, false)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrNotPaid) {
//	    // nothing was captured, or the order was already refunded
//	}
type RefundCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  float64
	reason  string
	items   []order.StockMovement
	restock bool

	guard guard.ConstructorGuard
}

// NewRefundCommand rejects non-finite amounts and over-long reasons.
// Amount bounds against the order total are checked by the aggregate.
func NewRefundCommand(
	orderID kernel.UUID,
	amount float64,
	reason string,
	items []order.StockMovement,
	restock bool,
) (RefundCommand, error) {
	var amountErr, reasonErr error
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amountErr = order.ErrInvalidAmount
	}
	if len(reason) > MaxRefundReasonLength {
		reasonErr = errs.NewValueIsOutOfRangeError("reason", len(reason), 0, MaxRefundReasonLength)
	}
	if err := errors.Join(orderID.Validate(), amountErr, reasonErr); err != nil {
		return RefundCommand{}, err
	}
	return RefundCommand{
		orderID: orderID,
		amount:  amount,
		reason:  reason,
		items:   append([]order.StockMovement(nil), items...),
		restock: restock,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RefundCommand) Validate() error {
	return c.guard.Validate(ErrRefundCommandIsNotConstructed)
}

func (c RefundCommand) OrderID() kernel.UUID { return c.orderID }

func (c RefundCommand) Request() order.RefundRequest {
	return order.RefundRequest{
		Amount:  c.amount,
		Reason:  c.reason,
		Items:   append([]order.StockMovement(nil), c.items...),
		Restock: c.restock,
	}
}
