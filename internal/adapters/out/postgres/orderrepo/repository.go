package orderrepo

import (
	"context"
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker ports.EffectTracker
}

// NewGormOrderRepository creates a repository; written orders are reported to tracker.
func NewGormOrderRepository(db *gorm.DB, tracker ports.EffectTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order with version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrOrderAlreadyExists
		}
		return err
	}

	aggregate.Persisted(dto.Version)
	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Update writes the order when the stored version matches and bumps it.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConcurrentModificationError("order", aggregate.ID().String())
	}

	aggregate.Persisted(dto.Version)
	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List pages through orders, newest first.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	filter = filter.Normalize()

	q := r.db.WithContext(ctx).Model(&OrderDTO{})
	if filter.Status != order.StatusUnknown {
		q = q.Where("status = ?", int(filter.Status))
	}

	var dtos []OrderDTO
	if err := q.Order("created_at DESC").Order("id").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// isUniqueViolation recognises duplicate keys both with and without
// gorm.Config.TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolation
}
