package commands

import (
	"errors"

	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// MaxOutboxBatchSize caps how many messages one dispatch run claims.
const MaxOutboxBatchSize = 1000

var ErrDispatchOutboxCommandIsNotConstructed = errors.New(
	"DispatchOutboxCommand must be created via NewDispatchOutboxCommand constructor",
)

// DispatchOutboxCommand delivers one batch of queued side effects.
type DispatchOutboxCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewDispatchOutboxCommand(batchSize int) (DispatchOutboxCommand, error) {
	if batchSize < 1 || batchSize > MaxOutboxBatchSize {
		return DispatchOutboxCommand{}, errs.NewValueIsOutOfRangeError("batch_size", batchSize, 1, MaxOutboxBatchSize)
	}
	return DispatchOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchOutboxCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOutboxCommandIsNotConstructed)
}

func (c DispatchOutboxCommand) BatchSize() int { return c.batchSize }
