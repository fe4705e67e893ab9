package ports

import (
	"context"

	"orderengine/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Effects queued on orders
// passed to Add or Update are written to the outbox by Commit, in the same
// transaction as the orders themselves.
type UnitOfWork interface {
	// Begin starts a new transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit drains tracked effects into the outbox and commits.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. After Commit it returns an error and changes nothing.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository

	// OutboxRepository returns a repository bound to the current transaction.
	OutboxRepository() OutboxRepository
}

// EffectTracker is implemented by units of work. Repositories register every
// order they write so queued effects reach the outbox on commit.
type EffectTracker interface {
	TrackAggregate(aggregate EffectSource)
}

// EffectSource is an aggregate that can hand over its queued effects.
type EffectSource interface {
	PullEffects() []order.Effect
}
