package outboxrepo

import (
	"context"
	"time"

	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
// Claim must run inside a transaction for its row locks to mean anything.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Append(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	dtos := make([]OutboxMessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, fromDomain(m))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Claim locks claimable rows with FOR UPDATE SKIP LOCKED so concurrent
// dispatchers never receive the same message.
func (r *GormOutboxRepository) Claim(
	ctx context.Context,
	limit int,
	now, staleBefore time.Time,
) ([]ports.OutboxMessage, error) {
	var dtos []OutboxMessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status IN ? OR (status = ? AND updated_at < ?)",
			[]string{string(ports.OutboxPending), string(ports.OutboxDelivered)},
			string(ports.OutboxInFlight), staleBefore).
		Order("created_at").Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	if err = r.db.WithContext(ctx).Model(&OutboxMessageDTO{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": string(ports.OutboxInFlight), "updated_at": now}).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		m, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		m.Status = ports.OutboxInFlight
		m.UpdatedAt = now
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) Save(ctx context.Context, message ports.OutboxMessage) error {
	result := r.db.WithContext(ctx).Model(&OutboxMessageDTO{}).
		Where("id = ?", message.ID).
		Updates(map[string]any{
			"status":       string(message.Status),
			"attempts":     message.Attempts,
			"last_error":   message.LastError,
			"email_status": string(message.EmailStatus),
			"updated_at":   message.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox_message", message.ID)
	}
	return nil
}

func (r *GormOutboxRepository) CountByStatus(ctx context.Context) (map[ports.OutboxStatus]int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	if err := r.db.WithContext(ctx).Model(&OutboxMessageDTO{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[ports.OutboxStatus]int, len(rows))
	for _, row := range rows {
		counts[ports.OutboxStatus(row.Status)] = row.Count
	}
	return counts, nil
}
