// Package memory provides process-local adapters for development, tests and
// single-instance deployments. A Store holds committed orders and the outbox;
// units of work stage writes and apply them atomically on Commit.
package memory

import (
	"sort"
	"sync"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// Store is the shared, mutex-guarded state behind the memory adapters.
type Store struct {
	mu      sync.Mutex
	orders  map[kernel.UUID]order.Snapshot
	numbers map[string]kernel.UUID
	outbox  []ports.OutboxMessage
	now     func() time.Time
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		orders:  make(map[kernel.UUID]order.Snapshot),
		numbers: make(map[string]kernel.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type write struct {
	snapshot order.Snapshot
	isNew    bool
	// expected is the committed version the write was based on.
	expected int
}

// apply commits writes and messages together, or nothing at all.
func (s *Store) apply(writes []write, messages []ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if err := s.checkLocked(w); err != nil {
			return err
		}
	}
	for _, w := range writes {
		s.orders[w.snapshot.ID] = w.snapshot
		s.numbers[w.snapshot.Number] = w.snapshot.ID
	}
	s.outbox = append(s.outbox, messages...)
	return nil
}

func (s *Store) checkLocked(w write) error {
	current, exists := s.orders[w.snapshot.ID]
	if w.isNew {
		if _, taken := s.numbers[w.snapshot.Number]; exists || taken {
			return ports.ErrOrderAlreadyExists
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError("order", w.snapshot.ID.String())
	}
	if current.Version != w.expected {
		return errs.NewConcurrentModificationError("order", w.snapshot.ID.String())
	}
	return nil
}

func (s *Store) get(id kernel.UUID) (order.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.orders[id]
	return snap, ok
}

func (s *Store) numberTaken(number string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.numbers[number]
	return ok
}

func (s *Store) list(filter ports.OrderFilter) []order.Snapshot {
	s.mu.Lock()
	matched := make([]order.Snapshot, 0, len(s.orders))
	for _, snap := range s.orders {
		if filter.Status == order.StatusUnknown || snap.Status == filter.Status {
			matched = append(matched, snap)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if filter.Offset >= len(matched) {
		return nil
	}
	end := min(filter.Offset+filter.Limit, len(matched))
	return matched[filter.Offset:end]
}
