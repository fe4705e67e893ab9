package commands

import (
	"context"
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"

	"golang.org/x/sync/errgroup"
)

// MaxBulkOrders caps a single bulk request.
const MaxBulkOrders = 500

var ErrBulkSetStatusCommandIsNotConstructed = errors.New(
	"BulkSetStatusCommand must be created via NewBulkSetStatusCommand constructor",
)

// BulkSetStatusCommand applies one status to many orders without notifications.
type BulkSetStatusCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID
	status   order.Status

	guard guard.ConstructorGuard
}

// NewBulkSetStatusCommand removes duplicate IDs, keeping the first occurrence.
func NewBulkSetStatusCommand(orderIDs []kernel.UUID, status order.Status) (BulkSetStatusCommand, error) {
	if len(orderIDs) == 0 {
		return BulkSetStatusCommand{}, errs.NewValueIsRequiredError("order_ids")
	}
	if len(orderIDs) > MaxBulkOrders {
		return BulkSetStatusCommand{}, errs.NewValueIsOutOfRangeError("order_ids", len(orderIDs), 1, MaxBulkOrders)
	}
	if err := status.Validate(); err != nil {
		return BulkSetStatusCommand{}, err
	}

	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	unique := make([]kernel.UUID, 0, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return BulkSetStatusCommand{}, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return BulkSetStatusCommand{orderIDs: unique, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (c BulkSetStatusCommand) Validate() error {
	return c.guard.Validate(ErrBulkSetStatusCommandIsNotConstructed)
}

func (c BulkSetStatusCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}
func (c BulkSetStatusCommand) Status() order.Status { return c.status }

// BulkFailure pairs an order with the reason its transition was rejected.
type BulkFailure struct {
	OrderID kernel.UUID
	Err     error
}

// BulkSetStatusResult lists outcomes in the order the IDs were supplied.
type BulkSetStatusResult struct {
	Succeeded []kernel.UUID
	Failed    []BulkFailure
}

// BulkSetStatusCommandHandler runs SetStatus for every order through a bounded
// worker pool. One failure never stops the others.
type BulkSetStatusCommandHandler struct {
	setStatus   SetStatusCommandHandler
	concurrency int
}

func NewBulkSetStatusCommandHandler(setStatus SetStatusCommandHandler, concurrency int) BulkSetStatusCommandHandler {
	if concurrency < 1 {
		concurrency = 1
	}
	return BulkSetStatusCommandHandler{setStatus: setStatus, concurrency: concurrency}
}

func (h BulkSetStatusCommandHandler) Handle(ctx context.Context, cmd BulkSetStatusCommand) (BulkSetStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkSetStatusResult{}, err
	}

	ids := cmd.OrderIDs()
	outcomes := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(h.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			sub, err := NewSetStatusCommand(id, cmd.Status(), false)
			if err == nil {
				_, err = h.setStatus.Handle(ctx, sub)
			}
			outcomes[i] = err
			return nil
		})
	}
	_ = g.Wait()

	result := BulkSetStatusResult{Succeeded: make([]kernel.UUID, 0, len(ids))}
	for i, id := range ids {
		if outcomes[i] != nil {
			result.Failed = append(result.Failed, BulkFailure{OrderID: id, Err: outcomes[i]})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}
