package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DispatchOutboxResult summarises one dispatch run.
type DispatchOutboxResult struct {
	Claimed int
	Done    int
	Retried int
	Failed  int
}

// OutboxDispatcherConfig tunes retry behaviour.
type OutboxDispatcherConfig struct {
	// MaxAttempts is how many delivery attempts a message gets before it is failed.
	MaxAttempts int
	// ClaimTimeout is how long an in-flight message may stay unacknowledged
	// before another run reclaims it.
	ClaimTimeout time.Duration
}

// DispatchOutboxCommandHandler delivers queued side effects after their order
// change committed and its lock was released. Delivery is at-least-once.
//
// Notifications go to the Notifier, then the outcome is written to the order's
// email history through RecordEmailCommandHandler. Restock and reservation
// release signals go to Inventory. A failing collaborator only delays its own
// messages; the order itself is never rolled back.
type DispatchOutboxCommandHandler struct {
	uowFactory  OutboxUoWFactory
	notifier    ports.Notifier
	inventory   ports.Inventory
	recordEmail RecordEmailCommandHandler
	cfg         OutboxDispatcherConfig
	clock       Clock
	logger      *zap.Logger
	deliveries  metric.Int64Counter
}

func NewDispatchOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	notifier ports.Notifier,
	inventory ports.Inventory,
	recordEmail RecordEmailCommandHandler,
	cfg OutboxDispatcherConfig,
	logger *zap.Logger,
) DispatchOutboxCommandHandler {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.ClaimTimeout <= 0 {
		cfg.ClaimTimeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	deliveries, err := otel.Meter("orderengine/commands").Int64Counter(
		"orderengine.outbox.deliveries",
		metric.WithDescription("Outbox messages processed, by kind and outcome"),
	)
	if err != nil {
		logger.Warn("outbox delivery counter unavailable", zap.Error(err))
	}
	return DispatchOutboxCommandHandler{
		uowFactory:  uowFactory,
		notifier:    notifier,
		inventory:   inventory,
		recordEmail: recordEmail,
		cfg:         cfg,
		clock:       systemClock,
		logger:      logger,
		deliveries:  deliveries,
	}
}

// WithClock returns a copy using clock for claim and retry timestamps.
func (h DispatchOutboxCommandHandler) WithClock(clock Clock) DispatchOutboxCommandHandler {
	h.clock = clock
	return h
}

func (h DispatchOutboxCommandHandler) Handle(ctx context.Context, cmd DispatchOutboxCommand) (DispatchOutboxResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchOutboxResult{}, err
	}

	messages, err := h.claim(ctx, cmd.BatchSize())
	if err != nil {
		return DispatchOutboxResult{}, err
	}

	result := DispatchOutboxResult{Claimed: len(messages)}
	repo := h.uowFactory.Create().OutboxRepository()
	for _, msg := range messages {
		msg = h.process(ctx, msg)
		msg.UpdatedAt = h.clock()
		if err = repo.Save(ctx, msg); err != nil {
			h.logger.Error("failed to save outbox message",
				zap.String("message_id", msg.ID), zap.String("status", string(msg.Status)), zap.Error(err))
		}

		switch msg.Status {
		case ports.OutboxDone:
			result.Done++
		case ports.OutboxFailed:
			result.Failed++
		case ports.OutboxPending, ports.OutboxDelivered, ports.OutboxInFlight:
			result.Retried++
		}
		h.count(ctx, msg)
	}

	return result, nil
}

func (h DispatchOutboxCommandHandler) claim(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	messages, err := uow.OutboxRepository().Claim(ctx, limit, now, now.Add(-h.cfg.ClaimTimeout))
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return messages, nil
}

// process delivers one message and returns it with its next status.
func (h DispatchOutboxCommandHandler) process(ctx context.Context, msg ports.OutboxMessage) ports.OutboxMessage {
	log := h.logger.With(
		zap.String("message_id", msg.ID),
		zap.String("order_number", msg.OrderNumber),
		zap.String("kind", string(msg.Kind)),
		zap.Int("attempt", msg.Attempts+1),
	)

	switch msg.Kind {
	case order.EffectNotification:
		return h.processNotification(ctx, msg, log)
	case order.EffectRestock, order.EffectReleaseReservation:
		if msg.Stock == nil {
			return h.abandon(msg, errors.New("stock movement missing"), log)
		}
		var err error
		if msg.Kind == order.EffectRestock {
			err = h.inventory.Restock(ctx, msg.OrderNumber, *msg.Stock)
		} else {
			err = h.inventory.ReleaseReservation(ctx, msg.OrderNumber, *msg.Stock)
		}
		if err != nil {
			log.Warn("inventory signal failed", zap.String("product_id", msg.Stock.ProductID), zap.Error(err))
			return h.retryOrFail(msg, err)
		}
		msg.Status = ports.OutboxDone
		msg.LastError = ""
		return msg
	default:
		return h.abandon(msg, fmt.Errorf("unknown effect kind %q", msg.Kind), log)
	}
}

func (h DispatchOutboxCommandHandler) processNotification(
	ctx context.Context,
	msg ports.OutboxMessage,
	log *zap.Logger,
) ports.OutboxMessage {
	if msg.Notification == nil {
		return h.abandon(msg, errors.New("notification missing"), log)
	}

	// An empty EmailStatus means the collaborator has not accepted the message yet.
	if msg.EmailStatus == "" {
		if err := h.notifier.Send(ctx, msg.OrderNumber, *msg.Notification); err != nil {
			log.Warn("notification failed", zap.String("template", msg.Notification.TemplateID), zap.Error(err))
			msg = h.retryOrFail(msg, err)
			if msg.Status != ports.OutboxFailed {
				return msg
			}
			msg.EmailStatus = order.EmailFailed
		} else {
			msg.EmailStatus = order.EmailSent
		}
	}

	finalStatus := ports.OutboxDone
	if msg.EmailStatus == order.EmailFailed {
		finalStatus = ports.OutboxFailed
	}

	if err := h.record(ctx, msg); err != nil {
		log.Warn("failed to record email outcome", zap.Error(err))
		msg.Attempts++
		msg.LastError = err.Error()
		if msg.Attempts >= h.cfg.MaxAttempts {
			msg.Status = ports.OutboxFailed
			return msg
		}
		msg.Status = ports.OutboxDelivered
		return msg
	}

	msg.Status = finalStatus
	return msg
}

func (h DispatchOutboxCommandHandler) record(ctx context.Context, msg ports.OutboxMessage) error {
	n := msg.Notification
	cmd, err := NewRecordEmailCommand(msg.OrderID, order.EmailRecord{
		TemplateID: n.TemplateID,
		Subject:    n.Subject,
		Body:       n.Body,
		To:         n.To,
		SentAt:     h.clock(),
		Status:     msg.EmailStatus,
	})
	if err != nil {
		return err
	}
	_, err = h.recordEmail.Handle(ctx, cmd)
	return err
}

func (h DispatchOutboxCommandHandler) retryOrFail(msg ports.OutboxMessage, cause error) ports.OutboxMessage {
	msg.Attempts++
	msg.LastError = cause.Error()
	if msg.Attempts >= h.cfg.MaxAttempts {
		msg.Status = ports.OutboxFailed
		return msg
	}
	msg.Status = ports.OutboxPending
	return msg
}

func (h DispatchOutboxCommandHandler) abandon(msg ports.OutboxMessage, cause error, log *zap.Logger) ports.OutboxMessage {
	log.Error("dropping malformed outbox message", zap.Error(cause))
	msg.Attempts++
	msg.LastError = cause.Error()
	msg.Status = ports.OutboxFailed
	return msg
}

func (h DispatchOutboxCommandHandler) count(ctx context.Context, msg ports.OutboxMessage) {
	if h.deliveries == nil {
		return
	}
	h.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(msg.Kind)),
		attribute.String("outcome", string(msg.Status)),
	))
}
