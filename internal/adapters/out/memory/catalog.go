package memory

import (
	"context"
	"sync"

	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

// Catalog is a fixed product list.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]ports.Product
}

func NewCatalog(products ...ports.Product) *Catalog {
	c := &Catalog{products: make(map[string]ports.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Put adds or replaces a product.
func (c *Catalog) Put(p ports.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *Catalog) Product(_ context.Context, productID string) (ports.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[productID]
	if !ok {
		return ports.Product{}, errs.NewObjectNotFoundError("product", productID)
	}
	return p, nil
}
