package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"orderengine/internal/pkg/errs"
)

// Item is a priced line of an order. Prices are captured at checkout and never
// re-read from the catalog.
type Item struct {
	ProductID string
	Name      string
	SKU       string
	UnitPrice float64
	Quantity  int
	ImageRef  string
}

// NewItem validates and returns a line item.
//
// Rules:
//   - product ID and name are required
//   - unit price must be a finite number >= 0
//   - quantity must be >= 1
func NewItem(productID, name, sku string, unitPrice float64, quantity int, imageRef string) (Item, error) {
	item := Item{
		ProductID: strings.TrimSpace(productID),
		Name:      strings.TrimSpace(name),
		SKU:       strings.TrimSpace(sku),
		UnitPrice: unitPrice,
		Quantity:  quantity,
		ImageRef:  imageRef,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Validate checks a line item and reports every violation at once, joined
// with errors.Join:
//   - product_id and name are required
//   - unit_price must be a finite number >= 0
//   - quantity must be >= 1
//
// Example:
//
//	err := order.Item{ProductID: "A", Quantity: 0}.Validate()
//	errors.Is(err, errs.ErrValueIsRequired)   // true, name is missing
//	errors.Is(err, errs.ErrValueIsOutOfRange) // true, quantity is 0
func (i Item) Validate() error {
	var errList []error
	if i.ProductID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("product_id"))
	}
	if i.Name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if math.IsNaN(i.UnitPrice) || math.IsInf(i.UnitPrice, 0) || i.UnitPrice < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("unit_price", i.UnitPrice, 0, math.MaxFloat64))
	}
	if i.Quantity < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", i.Quantity, 1, math.MaxInt32))
	}
	return errors.Join(errList...)
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// validateItems checks every item and rejects duplicate product IDs.
func validateItems(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	seen := make(map[string]struct{}, len(items))
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
		if _, dup := seen[item.ProductID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("product %s appears more than once", item.ProductID),
			)
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
