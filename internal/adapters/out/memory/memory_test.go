package memory_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orderengine/internal/adapters/out/memory"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newOrder(t *testing.T, number string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Draft{
		ID:       kernel.NewUUID(),
		Number:   number,
		Customer: order.Customer{Name: "Ada", Email: "ada@example.com"},
		Items:    []order.Item{{ProductID: "A", Name: "Widget", UnitPrice: 10, Quantity: 2}},
	}, testNow)
	require.NoError(t, err)
	return o
}

func addCommitted(t *testing.T, f ports.UnitOfWorkFactory, o *order.Order) {
	t.Helper()
	uow := f.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.OrderRepository().Add(t.Context(), o))
	require.NoError(t, uow.Commit(t.Context()))
}

func TestUnitOfWork_CommitAppliesWritesAndEffects(t *testing.T) {
	ctx := t.Context()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	o := newOrder(t, "O-1")
	addCommitted(t, f, o)

	uow := f.Create()
	require.NoError(t, uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.SetStatus(order.StatusProcessing, true, testNow))
	require.NoError(t, uow.OrderRepository().Update(ctx, loaded))

	outside, err := f.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, outside.Status(), "staged writes are invisible before commit")

	require.NoError(t, uow.Commit(ctx))

	stored, err := f.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, stored.Status())
	assert.Equal(t, 2, stored.Version())

	counts, err := f.Create().OutboxRepository().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[ports.OutboxStatus]int{ports.OutboxPending: 1}, counts)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	ctx := t.Context()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	o := newOrder(t, "O-1")

	uow := f.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Rollback(ctx))

	_, err := f.Create().OrderRepository().Get(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	require.ErrorIs(t, uow.Commit(ctx), memory.ErrNoTransaction)
}

func TestOrderRepository_VersionConflict(t *testing.T) {
	ctx := t.Context()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	o := newOrder(t, "O-1")
	addCommitted(t, f, o)

	first, second := f.Create(), f.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))
	a, err := first.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	b, err := second.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, a.SetStatus(order.StatusProcessing, false, testNow))
	require.NoError(t, first.OrderRepository().Update(ctx, a))
	require.NoError(t, b.SetStatus(order.StatusCancelled, false, testNow))
	require.NoError(t, second.OrderRepository().Update(ctx, b))
	require.NoError(t, first.Commit(ctx))

	err = second.Commit(ctx)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)

	stale := newOrder(t, "O-2")
	addCommitted(t, f, stale)
	stale.Persisted(5)
	err = f.Create().OrderRepository().Update(ctx, stale)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
}

func TestOrderRepository_DuplicateNumber(t *testing.T) {
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	addCommitted(t, f, newOrder(t, "O-1"))

	uow := f.Create()
	require.NoError(t, uow.Begin(t.Context()))
	err := uow.OrderRepository().Add(t.Context(), newOrder(t, "O-1"))

	require.ErrorIs(t, err, ports.ErrOrderAlreadyExists)
}

func TestOrderRepository_List(t *testing.T) {
	ctx := t.Context()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	for i, number := range []string{"O-1", "O-2", "O-3"} {
		o, err := order.NewOrder(order.Draft{
			ID:       kernel.NewUUID(),
			Number:   number,
			Customer: order.Customer{Name: "Ada", Email: "ada@example.com"},
			Items:    []order.Item{{ProductID: "A", Name: "Widget", UnitPrice: 10, Quantity: 1}},
		}, testNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		addCommitted(t, f, o)
	}

	repo := f.Create().OrderRepository()
	all, err := repo.List(ctx, ports.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "O-3", all[0].Number())

	page, err := repo.List(ctx, ports.OrderFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "O-1", page[0].Number())

	none, err := repo.List(ctx, ports.OrderFilter{Status: order.StatusShipped})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOutboxRepository_ClaimLifecycle(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewUnitOfWorkFactory(memory.NewStore()).Create().OutboxRepository()
	msgs := ports.NewOutboxMessages([]order.Effect{
		{Kind: order.EffectRestock, OrderNumber: "O-1", Stock: &order.StockMovement{ProductID: "A", Quantity: 1}},
		{Kind: order.EffectRestock, OrderNumber: "O-1", Stock: &order.StockMovement{ProductID: "B", Quantity: 1}},
	}, testNow)
	require.NoError(t, repo.Append(ctx, msgs...))

	claimed, err := repo.Claim(ctx, 1, testNow, testNow.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, msgs[0].ID, claimed[0].ID)

	claimed, err = repo.Claim(ctx, 10, testNow, testNow.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, msgs[1].ID, claimed[0].ID)

	done := claimed[0]
	done.Status = ports.OutboxDone
	require.NoError(t, repo.Save(ctx, done))

	later := testNow.Add(time.Hour)
	claimed, err = repo.Claim(ctx, 10, later, later.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, claimed, 1, "only the stale in-flight message is reclaimed")
	assert.Equal(t, msgs[0].ID, claimed[0].ID)

	require.ErrorIs(t, repo.Save(ctx, ports.OutboxMessage{ID: "nope"}), errs.ErrObjectNotFound)
}

func TestLocker_TryAcquire(t *testing.T) {
	ctx := t.Context()
	locker := memory.NewLocker()
	id := kernel.NewUUID()

	lock, err := locker.TryAcquire(ctx, id)
	require.NoError(t, err)

	_, err = locker.TryAcquire(ctx, id)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)

	_, err = locker.TryAcquire(ctx, kernel.NewUUID())
	require.NoError(t, err, "locks are per order")

	require.NoError(t, lock.Release(ctx))
	again, err := locker.TryAcquire(ctx, id)
	require.NoError(t, err)

	require.NoError(t, lock.Release(ctx), "a stale handle does not free the new holder")
	_, err = locker.TryAcquire(ctx, id)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	require.NoError(t, again.Release(ctx))
}

func TestLocker_SingleWinnerUnderContention(t *testing.T) {
	locker := memory.NewLocker()
	id := kernel.NewUUID()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := locker.TryAcquire(t.Context(), id); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestCatalog_Product(t *testing.T) {
	c := memory.NewCatalog(ports.Product{ID: "A", Name: "Widget", Price: 10, Active: true})
	c.Put(ports.Product{ID: "B", Name: "Gadget", Price: 5})

	p, err := c.Product(t.Context(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)

	_, err = c.Product(t.Context(), "Z")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
