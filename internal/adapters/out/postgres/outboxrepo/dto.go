// Package outboxrepo stores queued order side effects in PostgreSQL.
package outboxrepo

import (
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"github.com/google/uuid"
)

// OutboxMessageDTO is the outbox_messages table row.
type OutboxMessageDTO struct {
	ID           string           `gorm:"size:26;primaryKey"`
	OrderID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderNumber  string           `gorm:"size:64;not null"`
	Kind         string           `gorm:"size:32;not null"`
	Notification *NotificationDTO `gorm:"type:jsonb;serializer:json"`
	Stock        *StockDTO        `gorm:"type:jsonb;serializer:json"`
	Status       string           `gorm:"size:16;not null;index:idx_outbox_claim,priority:1"`
	Attempts     int              `gorm:"not null"`
	LastError    string
	EmailStatus  string    `gorm:"size:16"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;index:idx_outbox_claim,priority:2;autoUpdateTime:false"`
}

func (OutboxMessageDTO) TableName() string {
	return "outbox_messages"
}

type NotificationDTO struct {
	TemplateID string            `json:"template_id"`
	To         string            `json:"to"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
}

type StockDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func fromDomain(m ports.OutboxMessage) OutboxMessageDTO {
	dto := OutboxMessageDTO{
		ID:          m.ID,
		OrderID:     m.OrderID.Bytes(),
		OrderNumber: m.OrderNumber,
		Kind:        string(m.Kind),
		Status:      string(m.Status),
		Attempts:    m.Attempts,
		LastError:   m.LastError,
		EmailStatus: string(m.EmailStatus),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if n := m.Notification; n != nil {
		dto.Notification = &NotificationDTO{
			TemplateID: n.TemplateID,
			To:         n.To,
			Subject:    n.Subject,
			Body:       n.Body,
			Variables:  n.Variables,
		}
	}
	if s := m.Stock; s != nil {
		dto.Stock = &StockDTO{ProductID: s.ProductID, Quantity: s.Quantity}
	}
	return dto
}

func toDomain(dto OutboxMessageDTO) (ports.OutboxMessage, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	m := ports.OutboxMessage{
		ID:          dto.ID,
		OrderID:     orderID,
		OrderNumber: dto.OrderNumber,
		Kind:        order.EffectKind(dto.Kind),
		Status:      ports.OutboxStatus(dto.Status),
		Attempts:    dto.Attempts,
		LastError:   dto.LastError,
		EmailStatus: order.EmailStatus(dto.EmailStatus),
		CreatedAt:   dto.CreatedAt.UTC(),
		UpdatedAt:   dto.UpdatedAt.UTC(),
	}
	if n := dto.Notification; n != nil {
		m.Notification = &order.Notification{
			TemplateID: n.TemplateID,
			To:         n.To,
			Subject:    n.Subject,
			Body:       n.Body,
			Variables:  n.Variables,
		}
	}
	if s := dto.Stock; s != nil {
		m.Stock = &order.StockMovement{ProductID: s.ProductID, Quantity: s.Quantity}
	}
	return m, nil
}
