// Package postgres provides the GORM-based Unit of Work.
//
// Orders written through a unit of work are tracked; on Commit their queued
// effects are drained into the outbox inside the same transaction, so a side
// effect exists if and only if the change that caused it committed.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx) // no-op error after Commit
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"time"

	"orderengine/internal/adapters/out/postgres/orderrepo"
	"orderengine/internal/adapters/out/postgres/outboxrepo"
	"orderengine/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create returns a fresh unit of work. Instances are not safe for concurrent use.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db, now: f.now}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	now     func() time.Time
	tracked []ports.EffectSource
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit appends the effects of every tracked order to the outbox and commits.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.flushEffects(ctx); err != nil {
		_ = uow.tx.Rollback()
		uow.tx = nil
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction and any tracked effects.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	uow.tracked = nil
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository is bound to the open transaction, or to the pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// OutboxRepository is bound to the open transaction, or to the pool when none is open.
func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an order written in this unit of work.
func (uow *GormUnitOfWork) TrackAggregate(aggregate ports.EffectSource) {
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) flushEffects(ctx context.Context) error {
	tracked := uow.tracked
	uow.tracked = nil

	now := uow.now()
	var messages []ports.OutboxMessage
	for _, aggregate := range tracked {
		messages = append(messages, ports.NewOutboxMessages(aggregate.PullEffects(), now)...)
	}
	return outboxrepo.NewGormOutboxRepository(uow.tx).Append(ctx, messages...)
}
