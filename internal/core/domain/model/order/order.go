package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// MaxOrderNumberLength bounds the human readable order number.
const MaxOrderNumberLength = 64

// TrackingResolver turns a carrier reference into a public tracking URL.
// It is implemented by services.CarrierResolver.
type TrackingResolver interface {
	Resolve(carrierID, trackingNumber, customURL string) string
	DisplayName(carrierID string) string
}

// Order is the aggregate root of the engine. All three status axes, the
// financial totals and the audit trail change only through its methods,
// and every successful method appends exactly one timeline event.
//
// Order follows these invariants:
//   - id and order number are immutable
//   - items are non-empty, product IDs unique, quantities >= 1
//   - totals always equal Recalculate(items, discount, shipping_cost, tax_rate)
//   - fulfillment only advances while the order is processing
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id     kernel.UUID
	number string

	status            Status
	paymentStatus     PaymentStatus
	fulfillmentStatus FulfillmentStatus

	items          []Item
	totals         Totals
	taxRate        float64
	refundedAmount float64

	customer        Customer
	shippingAddress Address
	billingAddress  Address

	tracking     Tracking
	pickedItems  []string
	packedItems  []string
	pkg          Package
	pickedAt     *time.Time
	packedAt     *time.Time
	dispatchedAt *time.Time

	customerNote string
	notes        []Note
	emails       []EmailRecord
	timeline     []TimelineEvent

	createdAt time.Time
	updatedAt time.Time

	// version is the store's optimistic concurrency counter; 0 until first persisted.
	version int

	effects []Effect

	isConstructed bool
}

// Draft carries the priced cart handed over by checkout.
type Draft struct {
	ID              kernel.UUID
	Number          string
	Customer        Customer
	ShippingAddress Address
	BillingAddress  Address
	Items           []Item
	Discount        float64
	ShippingCost    float64
	TaxRate         float64
	PaymentStatus   PaymentStatus
	CustomerNote    string
}

// NewOrder creates a pending, unfulfilled order from a checkout draft.
//
// Parameters:
//   - d: the priced cart; PaymentStatus defaults to pending when unset
//   - now: creation time, also the first timeline entry
//
// Returns:
//   - *Order with derived totals and one "created" timeline event
//   - error joining every validation failure, or ErrEmptyOrder
//
// Example:
//
//	o, err := order.NewOrder(order.Draft{
//	    ID:       kernel.NewUUID(),
//	    Number:   "O-1001",
//	    Customer: order.Customer{Name: "Ada", Email: "ada@example.com"},
//	    Items:    items,
//	    TaxRate:  0.10,
//	}, time.Now())
func NewOrder(d Draft, now time.Time) (*Order, error) {
	if d.PaymentStatus == PaymentUnknown {
		d.PaymentStatus = PaymentPending
	}
	number := strings.TrimSpace(d.Number)

	var errList []error
	errList = append(errList, d.ID.Validate(), validateOrderNumber(number), d.Customer.Validate(),
		d.ShippingAddress.Validate("shipping_address"), d.BillingAddress.Validate("billing_address"),
		ValidateTaxRate(d.TaxRate))
	if !d.PaymentStatus.IsInitial() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"payment_status",
			fmt.Errorf("orders cannot be created as %s", d.PaymentStatus),
		))
	}
	if err := validateItems(d.Items); err != nil {
		errList = append(errList, err)
	} else {
		errList = append(errList, validateAdjustments(d.Items, d.Discount, d.ShippingCost))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	o := &Order{
		id:                d.ID,
		number:            number,
		status:            StatusPending,
		paymentStatus:     d.PaymentStatus,
		fulfillmentStatus: FulfillmentUnfulfilled,
		items:             cloneItems(d.Items),
		totals:            computeTotals(d.Items, d.Discount, d.ShippingCost, d.TaxRate),
		taxRate:           d.TaxRate,
		customer:          d.Customer,
		shippingAddress:   d.ShippingAddress,
		billingAddress:    d.BillingAddress,
		customerNote:      SanitizeText(d.CustomerNote),
		createdAt:         now,
		isConstructed:     true,
	}
	o.appendTimeline(fmt.Sprintf("Order %s created with %d items, total %s",
		o.number, len(o.items), kernel.FormatAmount(o.totals.Total)), now)

	return o, nil
}

func validateOrderNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order_number")
	}
	if len(number) > MaxOrderNumberLength {
		return errs.NewValueIsOutOfRangeError("order_number", len(number), 1, MaxOrderNumberLength)
	}
	return nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Accessors return values or copies; an Order is only changed through its
// mutation methods.
func (o *Order) ID() kernel.UUID                      { return o.id }
func (o *Order) Number() string                       { return o.number }
func (o *Order) Status() Status                       { return o.status }
func (o *Order) PaymentStatus() PaymentStatus         { return o.paymentStatus }
func (o *Order) FulfillmentStatus() FulfillmentStatus { return o.fulfillmentStatus }
func (o *Order) Totals() Totals                       { return o.totals }
func (o *Order) TaxRate() float64                     { return o.taxRate }
func (o *Order) RefundedAmount() float64              { return o.refundedAmount }
func (o *Order) Customer() Customer                   { return o.customer }
func (o *Order) ShippingAddress() Address             { return o.shippingAddress }
func (o *Order) BillingAddress() Address              { return o.billingAddress }
func (o *Order) Tracking() Tracking                   { return o.tracking }
func (o *Order) Package() Package                     { return o.pkg }
func (o *Order) CustomerNote() string                 { return o.customerNote }
func (o *Order) CreatedAt() time.Time                 { return o.createdAt }
func (o *Order) UpdatedAt() time.Time                 { return o.updatedAt }
func (o *Order) Version() int                         { return o.version }

// Items returns a copy of the line items.
func (o *Order) Items() []Item { return cloneItems(o.items) }

func (o *Order) PickedItems() []string { return append([]string(nil), o.pickedItems...) }
func (o *Order) PackedItems() []string { return append([]string(nil), o.packedItems...) }

func (o *Order) PickedAt() *time.Time     { return copyTime(o.pickedAt) }
func (o *Order) PackedAt() *time.Time     { return copyTime(o.packedAt) }
func (o *Order) DispatchedAt() *time.Time { return copyTime(o.dispatchedAt) }

func (o *Order) Notes() []Note               { return append([]Note(nil), o.notes...) }
func (o *Order) EmailHistory() []EmailRecord { return append([]EmailRecord(nil), o.emails...) }
func (o *Order) Timeline() []TimelineEvent   { return append([]TimelineEvent(nil), o.timeline...) }

// item returns the line for productID.
func (o *Order) item(productID string) (Item, bool) {
	for _, it := range o.items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return Item{}, false
}

func (o *Order) productIDs() []string {
	ids := make([]string, 0, len(o.items))
	for _, it := range o.items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
