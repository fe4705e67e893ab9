package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("orderengine/commands")

// Clock returns the time stamped on timeline events.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// orderMutator runs one change against one order:
// lock, begin, load, apply, update (version checked), commit, unlock.
// Lock contention fails fast with errs.ConcurrentModificationError.
type orderMutator struct {
	uowFactory OrderUoWFactory
	locker     ports.OrderLocker
	clock      Clock
}

func newOrderMutator(uowFactory OrderUoWFactory, locker ports.OrderLocker) orderMutator {
	return orderMutator{uowFactory: uowFactory, locker: locker, clock: systemClock}
}

func (m orderMutator) mutate(
	ctx context.Context,
	operation string,
	id kernel.UUID,
	apply func(o *order.Order, now time.Time) error,
) (_ *order.Order, err error) {
	ctx, span := startSpan(ctx, operation, id)
	defer func() { endSpan(span, err) }()

	lock, err := m.locker.TryAcquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	uow := m.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = apply(o, m.clock()); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func startSpan(ctx context.Context, operation string, id kernel.UUID) (context.Context, trace.Span) {
	return tracer.Start(ctx, operation, trace.WithAttributes(attribute.String("order.id", id.String())))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
