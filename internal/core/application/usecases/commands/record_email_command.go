package commands

import (
	"context"
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"

	"github.com/cenkalti/backoff/v4"
)

var ErrRecordEmailCommandIsNotConstructed = errors.New(
	"RecordEmailCommand must be created via NewRecordEmailCommand constructor",
)

// RecordEmailCommand appends a delivery outcome to an order's email history.
type RecordEmailCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	record  order.EmailRecord

	guard guard.ConstructorGuard
}

func NewRecordEmailCommand(orderID kernel.UUID, record order.EmailRecord) (RecordEmailCommand, error) {
	if err := errors.Join(orderID.Validate(), record.Status.Validate()); err != nil {
		return RecordEmailCommand{}, err
	}
	return RecordEmailCommand{orderID: orderID, record: record, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordEmailCommand) Validate() error {
	return c.guard.Validate(ErrRecordEmailCommandIsNotConstructed)
}

func (c RecordEmailCommand) OrderID() kernel.UUID      { return c.orderID }
func (c RecordEmailCommand) Record() order.EmailRecord { return c.record }

// RecordEmailCommandHandler is called by the outbox dispatcher, which competes
// with user traffic for the order lock. Lock contention is retried with
// exponential backoff; every other error stops immediately.
type RecordEmailCommandHandler struct {
	mutator    orderMutator
	newBackOff func() backoff.BackOff
}

func NewRecordEmailCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) RecordEmailCommandHandler {
	return RecordEmailCommandHandler{
		mutator:    newOrderMutator(uowFactory, locker),
		newBackOff: defaultRecordBackOff,
	}
}

func defaultRecordBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(b, 6)
}

// WithBackOff returns a copy using newBackOff for retries.
func (h RecordEmailCommandHandler) WithBackOff(newBackOff func() backoff.BackOff) RecordEmailCommandHandler {
	h.newBackOff = newBackOff
	return h
}

func (h RecordEmailCommandHandler) Handle(ctx context.Context, cmd RecordEmailCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var result *order.Order
	operation := func() error {
		o, err := h.mutator.mutate(ctx, "RecordEmail", cmd.OrderID(), func(o *order.Order, now time.Time) error {
			return o.RecordEmail(cmd.Record(), now)
		})
		if err != nil {
			if errors.Is(err, errs.ErrConcurrentModification) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = o
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(h.newBackOff(), ctx)); err != nil {
		return nil, err
	}
	return result, nil
}
