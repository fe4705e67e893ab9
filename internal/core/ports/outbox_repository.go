package ports

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/oklog/ulid/v2"
)

// OutboxStatus is the delivery state of an outbox message.
//
//	pending ──claim──> in_flight ──sent──> done
//	   ▲                  │  └──sent, email not yet recorded──> delivered ──> done
//	   └────retry─────────┴──attempts exhausted──> failed
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxInFlight  OutboxStatus = "in_flight"
	OutboxDelivered OutboxStatus = "delivered"
	OutboxDone      OutboxStatus = "done"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxMessage is a queued side effect persisted together with the order change
// that produced it.
type OutboxMessage struct {
	ID           string
	OrderID      kernel.UUID
	OrderNumber  string
	Kind         order.EffectKind
	Notification *order.Notification
	Stock        *order.StockMovement
	Status       OutboxStatus
	Attempts     int
	LastError    string
	// EmailStatus is the notification outcome waiting to be written to the order.
	EmailStatus order.EmailStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Effect rebuilds the domain effect carried by the message.
func (m OutboxMessage) Effect() order.Effect {
	return order.Effect{
		Kind:         m.Kind,
		OrderID:      m.OrderID,
		OrderNumber:  m.OrderNumber,
		Notification: m.Notification,
		Stock:        m.Stock,
	}
}

// NewOutboxMessages wraps drained effects as pending messages with ULID ids,
// so lexical id order follows creation order.
func NewOutboxMessages(effects []order.Effect, now time.Time) []OutboxMessage {
	messages := make([]OutboxMessage, 0, len(effects))
	for _, e := range effects {
		messages = append(messages, OutboxMessage{
			ID:           ulid.Make().String(),
			OrderID:      e.OrderID,
			OrderNumber:  e.OrderNumber,
			Kind:         e.Kind,
			Notification: e.Notification,
			Stock:        e.Stock,
			Status:       OutboxPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return messages
}

// OutboxRepository stores side effects until the dispatcher delivers them.
type OutboxRepository interface {
	// Append stores new pending messages.
	Append(ctx context.Context, messages ...OutboxMessage) error

	// Claim marks up to limit messages as in flight and returns them oldest first.
	// Pending and delivered messages are claimable, as are in-flight messages
	// last touched before staleBefore (a dispatcher that died mid-delivery).
	Claim(ctx context.Context, limit int, now, staleBefore time.Time) ([]OutboxMessage, error)

	// Save writes status, attempts, last error, email status and updated time.
	Save(ctx context.Context, message OutboxMessage) error

	// CountByStatus reports the backlog per status.
	CountByStatus(ctx context.Context) (map[OutboxStatus]int, error)
}
