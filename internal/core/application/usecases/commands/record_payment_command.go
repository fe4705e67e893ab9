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

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand reports a payment outcome from the payment collaborator.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.PaymentStatus

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(orderID kernel.UUID, status order.PaymentStatus) (RecordPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return RecordPaymentCommand{}, err
	}
	return RecordPaymentCommand{orderID: orderID, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) OrderID() kernel.UUID               { return c.orderID }
func (c RecordPaymentCommand) PaymentStatus() order.PaymentStatus { return c.status }

type RecordPaymentCommandHandler struct {
	mutator orderMutator
}

func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "RecordPayment", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.RecordPayment(cmd.PaymentStatus(), now)
	})
}
