// Package catalogrepo reads the product catalog table owned by the storefront.
package catalogrepo

import (
	"context"
	"errors"

	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"gorm.io/gorm"
)

// ProductDTO is a products table row.
type ProductDTO struct {
	ID       string `gorm:"size:64;primaryKey"`
	Name     string `gorm:"not null"`
	SKU      string `gorm:"size:64"`
	Price    float64
	ImageRef string
	Active   bool `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormProductCatalog implements ports.ProductCatalog.
type GormProductCatalog struct {
	db *gorm.DB
}

func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

func (c *GormProductCatalog) Product(ctx context.Context, productID string) (ports.Product, error) {
	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, errs.NewObjectNotFoundError("product", productID)
		}
		return ports.Product{}, err
	}
	return ports.Product(dto), nil
}
