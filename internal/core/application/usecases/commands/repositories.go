// Package commands contains the operations that change orders.
// Every command follows the same pattern: constructor validation, per-order
// lock, transaction, aggregate method, persistence with version check, commit.
package commands

import (
	"context"

	"orderengine/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OutboxRepoFactory provides access to outbox repository within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages transactions for operations on order aggregates.
	// Effects queued on written orders reach the outbox on Commit.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW manages transactions for the outbox dispatcher.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
