package memory

import (
	"context"
	"time"

	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// OutboxRepository implements ports.OutboxRepository on a Store.
// Every call is atomic on its own; a claim can never be handed out twice.
type OutboxRepository struct {
	store *Store
}

func (r *OutboxRepository) Append(_ context.Context, messages ...ports.OutboxMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.outbox = append(r.store.outbox, messages...)
	return nil
}

func (r *OutboxRepository) Claim(_ context.Context, limit int, now, staleBefore time.Time) ([]ports.OutboxMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var claimed []ports.OutboxMessage
	for i := range r.store.outbox {
		if len(claimed) >= limit {
			break
		}
		m := &r.store.outbox[i]
		switch {
		case m.Status == ports.OutboxPending, m.Status == ports.OutboxDelivered:
		case m.Status == ports.OutboxInFlight && m.UpdatedAt.Before(staleBefore):
		default:
			continue
		}
		m.Status = ports.OutboxInFlight
		m.UpdatedAt = now
		claimed = append(claimed, *m)
	}
	return claimed, nil
}

func (r *OutboxRepository) Save(_ context.Context, message ports.OutboxMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.outbox {
		m := &r.store.outbox[i]
		if m.ID != message.ID {
			continue
		}
		m.Status = message.Status
		m.Attempts = message.Attempts
		m.LastError = message.LastError
		m.EmailStatus = message.EmailStatus
		m.UpdatedAt = message.UpdatedAt
		return nil
	}
	return errs.NewObjectNotFoundError("outbox_message", message.ID)
}

func (r *OutboxRepository) CountByStatus(_ context.Context) (map[ports.OutboxStatus]int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	counts := make(map[ports.OutboxStatus]int)
	for _, m := range r.store.outbox {
		counts[m.Status]++
	}
	return counts, nil
}
