package postgres

import (
	"orderengine/internal/adapters/out/postgres/catalogrepo"
	"orderengine/internal/adapters/out/postgres/orderrepo"
	"orderengine/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the orders, outbox_messages and products tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&outboxrepo.OutboxMessageDTO{},
		&catalogrepo.ProductDTO{},
	)
}
