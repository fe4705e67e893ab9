// Package orderrepo persists order aggregates in PostgreSQL through GORM.
// Scalar state lives in columns; items, notes, email history and timeline
// are jsonb documents owned by the row.
package orderrepo

import (
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO is the orders table row.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number            string    `gorm:"size:64;not null;uniqueIndex"`
	Status            int       `gorm:"not null;index"`
	PaymentStatus     int       `gorm:"not null"`
	FulfillmentStatus int       `gorm:"not null"`

	Items          []ItemDTO `gorm:"type:jsonb;serializer:json"`
	Subtotal       float64
	Discount       float64
	ShippingCost   float64
	Tax            float64
	Total          float64
	TaxRate        float64
	RefundedAmount float64

	Customer        CustomerDTO `gorm:"embedded;embeddedPrefix:customer_"`
	ShippingAddress AddressDTO  `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  AddressDTO  `gorm:"embedded;embeddedPrefix:billing_"`

	CarrierID      string
	TrackingNumber string
	TrackingURL    string
	PickedItems    pq.StringArray `gorm:"type:text[]"`
	PackedItems    pq.StringArray `gorm:"type:text[]"`
	PackageWeight  float64
	PackageLength  float64
	PackageWidth   float64
	PackageHeight  float64
	PickedAt       *time.Time
	PackedAt       *time.Time
	DispatchedAt   *time.Time

	CustomerNote string
	Notes        []NoteDTO          `gorm:"type:jsonb;serializer:json"`
	EmailHistory []EmailRecordDTO   `gorm:"type:jsonb;serializer:json"`
	Timeline     []TimelineEventDTO `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null"`
}

// TableName overrides GORM's default naming.
func (OrderDTO) TableName() string {
	return "orders"
}

type CustomerDTO struct {
	Name    string
	Email   string `gorm:"index"`
	Phone   string
	Company string
}

type AddressDTO struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

type ItemDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

type NoteDTO struct {
	Content    string    `json:"content"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

type EmailRecordDTO struct {
	TemplateID string    `json:"template_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	To         string    `json:"to"`
	SentAt     time.Time `json:"sent_at"`
	Status     string    `json:"status"`
}

type TimelineEventDTO struct {
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	items := make([]ItemDTO, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, ItemDTO(it))
	}
	notes := make([]NoteDTO, 0, len(s.Notes))
	for _, n := range s.Notes {
		notes = append(notes, NoteDTO{Content: n.Content, Visibility: string(n.Visibility), CreatedAt: n.CreatedAt})
	}
	emails := make([]EmailRecordDTO, 0, len(s.EmailHistory))
	for _, e := range s.EmailHistory {
		emails = append(emails, EmailRecordDTO{
			TemplateID: e.TemplateID,
			Subject:    e.Subject,
			Body:       e.Body,
			To:         e.To,
			SentAt:     e.SentAt,
			Status:     string(e.Status),
		})
	}
	timeline := make([]TimelineEventDTO, 0, len(s.Timeline))
	for _, ev := range s.Timeline {
		timeline = append(timeline, TimelineEventDTO(ev))
	}

	return OrderDTO{
		ID:                s.ID.Bytes(),
		Number:            s.Number,
		Status:            int(s.Status),
		PaymentStatus:     int(s.PaymentStatus),
		FulfillmentStatus: int(s.FulfillmentStatus),
		Items:             items,
		Subtotal:          s.Totals.Subtotal,
		Discount:          s.Totals.Discount,
		ShippingCost:      s.Totals.ShippingCost,
		Tax:               s.Totals.Tax,
		Total:             s.Totals.Total,
		TaxRate:           s.TaxRate,
		RefundedAmount:    s.RefundedAmount,
		Customer:          CustomerDTO(s.Customer),
		ShippingAddress:   AddressDTO(s.ShippingAddress),
		BillingAddress:    AddressDTO(s.BillingAddress),
		CarrierID:         s.Tracking.CarrierID,
		TrackingNumber:    s.Tracking.TrackingNumber,
		TrackingURL:       s.Tracking.TrackingURL,
		PickedItems:       pq.StringArray(s.PickedItems),
		PackedItems:       pq.StringArray(s.PackedItems),
		PackageWeight:     s.Package.Weight,
		PackageLength:     s.Package.Dimensions.Length,
		PackageWidth:      s.Package.Dimensions.Width,
		PackageHeight:     s.Package.Dimensions.Height,
		PickedAt:          s.PickedAt,
		PackedAt:          s.PackedAt,
		DispatchedAt:      s.DispatchedAt,
		CustomerNote:      s.CustomerNote,
		Notes:             notes,
		EmailHistory:      emails,
		Timeline:          timeline,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		Version:           s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, order.Item(it))
	}
	notes := make([]order.Note, 0, len(dto.Notes))
	for _, n := range dto.Notes {
		notes = append(notes, order.Note{
			Content:    n.Content,
			Visibility: order.Visibility(n.Visibility),
			CreatedAt:  n.CreatedAt,
		})
	}
	emails := make([]order.EmailRecord, 0, len(dto.EmailHistory))
	for _, e := range dto.EmailHistory {
		emails = append(emails, order.EmailRecord{
			TemplateID: e.TemplateID,
			Subject:    e.Subject,
			Body:       e.Body,
			To:         e.To,
			SentAt:     e.SentAt,
			Status:     order.EmailStatus(e.Status),
		})
	}
	timeline := make([]order.TimelineEvent, 0, len(dto.Timeline))
	for _, ev := range dto.Timeline {
		timeline = append(timeline, order.TimelineEvent(ev))
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                id,
		Number:            dto.Number,
		Status:            order.Status(dto.Status),
		PaymentStatus:     order.PaymentStatus(dto.PaymentStatus),
		FulfillmentStatus: order.FulfillmentStatus(dto.FulfillmentStatus),
		Items:             items,
		Totals: order.Totals{
			Subtotal:     dto.Subtotal,
			Discount:     dto.Discount,
			ShippingCost: dto.ShippingCost,
			Tax:          dto.Tax,
			Total:        dto.Total,
		},
		TaxRate:         dto.TaxRate,
		RefundedAmount:  dto.RefundedAmount,
		Customer:        order.Customer(dto.Customer),
		ShippingAddress: order.Address(dto.ShippingAddress),
		BillingAddress:  order.Address(dto.BillingAddress),
		Tracking: order.Tracking{
			CarrierID:      dto.CarrierID,
			TrackingNumber: dto.TrackingNumber,
			TrackingURL:    dto.TrackingURL,
		},
		PickedItems: dto.PickedItems,
		PackedItems: dto.PackedItems,
		Package: order.Package{
			Weight: dto.PackageWeight,
			Dimensions: order.Dimensions{
				Length: dto.PackageLength,
				Width:  dto.PackageWidth,
				Height: dto.PackageHeight,
			},
		},
		PickedAt:     utc(dto.PickedAt),
		PackedAt:     utc(dto.PackedAt),
		DispatchedAt: utc(dto.DispatchedAt),
		CustomerNote: dto.CustomerNote,
		Notes:        notes,
		EmailHistory: emails,
		Timeline:     timeline,
		CreatedAt:    dto.CreatedAt.UTC(),
		UpdatedAt:    dto.UpdatedAt.UTC(),
		Version:      dto.Version,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
