package memory

import (
	"context"
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback without a prior Begin.
var ErrNoTransaction = errors.New("memory: no transaction in progress")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages order writes until Commit. Without Begin, writes apply
// immediately, each on its own.
type UnitOfWork struct {
	store   *Store
	active  bool
	writes  []write
	tracked []ports.EffectSource
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.active = true
	return nil
}

// Commit re-checks every staged version against the store, then applies the
// writes and the drained effects in one step.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	writes, tracked := u.writes, u.tracked
	u.reset()

	var messages []ports.OutboxMessage
	now := u.store.now()
	for _, aggregate := range tracked {
		messages = append(messages, ports.NewOutboxMessages(aggregate.PullEffects(), now)...)
	}
	return u.store.apply(writes, messages)
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	u.reset()
	return nil
}

func (u *UnitOfWork) reset() {
	u.active = false
	u.writes = nil
	u.tracked = nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: u}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &OutboxRepository{store: u.store}
}

func (u *UnitOfWork) stage(w write, aggregate ports.EffectSource) error {
	if !u.active {
		now := u.store.now()
		return u.store.apply([]write{w}, ports.NewOutboxMessages(aggregate.PullEffects(), now))
	}
	u.writes = append(u.writes, w)
	u.tracked = append(u.tracked, aggregate)
	return nil
}

// staged returns the latest snapshot of id written in this unit of work.
func (u *UnitOfWork) staged(id kernel.UUID) (order.Snapshot, bool) {
	for i := len(u.writes) - 1; i >= 0; i-- {
		if u.writes[i].snapshot.ID == id {
			return u.writes[i].snapshot, true
		}
	}
	return order.Snapshot{}, false
}

func (u *UnitOfWork) lookup(id kernel.UUID) (order.Snapshot, bool) {
	if snap, ok := u.staged(id); ok {
		return snap, true
	}
	return u.store.get(id)
}

// OrderRepository implements ports.OrderRepository on a Store.
type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.lookup(aggregate.ID()); exists || r.numberStaged(aggregate.Number()) ||
		r.uow.store.numberTaken(aggregate.Number()) {
		return ports.ErrOrderAlreadyExists
	}

	aggregate.Persisted(1)
	return r.uow.stage(write{snapshot: aggregate.Snapshot(), isNew: true}, aggregate)
}

func (r *OrderRepository) numberStaged(number string) bool {
	for _, w := range r.uow.writes {
		if w.snapshot.Number == number {
			return true
		}
	}
	return false
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	current, ok := r.uow.lookup(aggregate.ID())
	if !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	expected := aggregate.Version()
	if current.Version != expected {
		return errs.NewConcurrentModificationError("order", aggregate.ID().String())
	}

	// A staged base means this unit of work wrote the order before; compare
	// against the committed version it started from.
	base := expected
	isNew := false
	for _, w := range r.uow.writes {
		if w.snapshot.ID == aggregate.ID() {
			base, isNew = w.expected, w.isNew
			break
		}
	}

	aggregate.Persisted(expected + 1)
	return r.uow.stage(write{snapshot: aggregate.Snapshot(), isNew: isNew, expected: base}, aggregate)
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	snap, ok := r.uow.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

// List reads committed orders only.
func (r *OrderRepository) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	snaps := r.uow.store.list(filter.Normalize())
	orders := make([]*order.Order, 0, len(snaps))
	for _, snap := range snaps {
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
