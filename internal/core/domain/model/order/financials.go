package order

import (
	"math"

	"orderengine/internal/pkg/errs"
)

// Totals is the derived financial state of an order.
type Totals struct {
	Subtotal     float64
	Discount     float64
	ShippingCost float64
	Tax          float64
	Total        float64
}

// Recalculate derives subtotal, tax and total from the inputs. It is pure.
//
//	subtotal = Σ unit_price × quantity
//	tax      = max(0, subtotal − discount + shipping_cost) × tax_rate
//	total    = subtotal − discount + shipping_cost + tax
//
// Example:
//
//	// items 2×50 + 1×20, discount 10, shipping 15, rate 0.10
//	subtotal, tax, total := Recalculate(items, 10, 15, 0.10) // 120, 12.5, 137.5
func Recalculate(items []Item, discount, shippingCost, taxRate float64) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	taxable := max(0, subtotal-discount+shippingCost)
	tax = taxable * taxRate
	total = subtotal - discount + shippingCost + tax
	return subtotal, tax, total
}

// computeTotals runs Recalculate and packages the result.
func computeTotals(items []Item, discount, shippingCost, taxRate float64) Totals {
	subtotal, tax, total := Recalculate(items, discount, shippingCost, taxRate)
	return Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingCost: shippingCost,
		Tax:          tax,
		Total:        total,
	}
}

// validateAdjustments checks discount and shipping cost against the subtotal of items.
func validateAdjustments(items []Item, discount, shippingCost float64) error {
	if math.IsNaN(shippingCost) || math.IsInf(shippingCost, 0) || shippingCost < 0 {
		return errs.NewValueIsOutOfRangeError("shipping_cost", shippingCost, 0, math.MaxFloat64)
	}
	subtotal, _, _ := Recalculate(items, 0, 0, 0)
	if math.IsNaN(discount) || discount < 0 || discount > subtotal {
		return errs.NewValueIsOutOfRangeError("discount", discount, 0, subtotal)
	}
	return nil
}

// ValidateTaxRate requires a rate in [0, 1].
func ValidateTaxRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return errs.NewValueIsOutOfRangeError("tax_rate", rate, 0, 1)
	}
	return nil
}
