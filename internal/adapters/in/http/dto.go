package http

import (
	"time"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/domain/services"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a Address) toDomain() order.Address {
	return order.Address(a)
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

func (c Customer) toDomain() order.Customer {
	return order.Customer(c)
}

type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

func itemsToDomain(items []Item) []order.Item {
	out := make([]order.Item, len(items))
	for i, it := range items {
		out[i] = order.Item(it)
	}
	return out
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type NewOrder struct {
	Number          string   `json:"number"`
	Customer        Customer `json:"customer"`
	ShippingAddress Address  `json:"shipping_address"`
	BillingAddress  Address  `json:"billing_address"`
	Items           []Item   `json:"items"`
	Discount        float64  `json:"discount"`
	ShippingCost    float64  `json:"shipping_cost"`
	PaymentStatus   string   `json:"payment_status"`
	CustomerNote    string   `json:"customer_note"`
}

type EditItems struct {
	Items    []Item  `json:"items"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
}

type AddItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateCustomer struct {
	Customer        Customer `json:"customer"`
	ShippingAddress Address  `json:"shipping_address"`
	BillingAddress  Address  `json:"billing_address"`
}

// Fulfillment advances the fulfillment axis to Status; only the fields
// of that step are read.
type Fulfillment struct {
	Status            string     `json:"status"`
	PickedItems       []string   `json:"picked_items"`
	PackedItems       []string   `json:"packed_items"`
	PackageWeight     float64    `json:"package_weight"`
	PackageDimensions Dimensions `json:"package_dimensions"`
	CarrierID         string     `json:"carrier_id"`
	TrackingNumber    string     `json:"tracking_number"`
	TrackingURL       string     `json:"tracking_url"`
	Notify            bool       `json:"notify"`
}

type Tracking struct {
	CarrierID      string `json:"carrier_id"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	Notify         bool   `json:"notify"`
}

type StockItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Refund struct {
	Amount  float64     `json:"amount"`
	Reason  string      `json:"reason"`
	Items   []StockItem `json:"items"`
	Restock bool        `json:"restock"`
}

type Note struct {
	Note           string `json:"note"`
	Type           string `json:"type"`
	NotifyCustomer bool   `json:"notify_customer"`
}

type Email struct {
	Template string `json:"template"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	To       string `json:"to"`
}

type BulkStatus struct {
	OrderIDs []string `json:"order_ids"`
}

type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

type TrackingInfo struct {
	CarrierID      string `json:"carrier_id,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	TrackingURL    string `json:"tracking_url,omitempty"`
}

type PackageInfo struct {
	Weight     float64    `json:"weight"`
	Dimensions Dimensions `json:"dimensions"`
}

type NoteView struct {
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type EmailView struct {
	Template string    `json:"template"`
	Subject  string    `json:"subject"`
	To       string    `json:"to"`
	Status   string    `json:"status"`
	SentAt   time.Time `json:"sent_at"`
}

type TimelineEvent struct {
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID                string       `json:"id"`
	Number            string       `json:"number"`
	Status            string       `json:"status"`
	PaymentStatus     string       `json:"payment_status"`
	FulfillmentStatus string       `json:"fulfillment_status"`
	Items             []Item       `json:"items"`
	Totals            Totals       `json:"totals"`
	TaxRate           float64      `json:"tax_rate"`
	RefundedAmount    float64      `json:"refunded_amount"`
	Customer          Customer     `json:"customer"`
	ShippingAddress   Address      `json:"shipping_address"`
	BillingAddress    Address      `json:"billing_address"`
	Tracking          TrackingInfo `json:"tracking"`
	PickedItems       []string     `json:"picked_items"`
	PackedItems       []string     `json:"packed_items"`
	Package           PackageInfo  `json:"package"`
	Notes             []NoteView   `json:"notes"`
	EmailHistory      []EmailView  `json:"email_history"`
	CustomerNote      string       `json:"customer_note,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Version           int          `json:"version"`
}

func newOrder(o *order.Order) Order {
	items := o.Items()
	respItems := make([]Item, len(items))
	for i, it := range items {
		respItems[i] = Item(it)
	}
	notes := make([]NoteView, 0, len(o.Notes()))
	for _, n := range o.Notes() {
		notes = append(notes, NoteView{Content: n.Content, Type: string(n.Visibility), CreatedAt: n.CreatedAt})
	}
	emails := make([]EmailView, 0, len(o.EmailHistory()))
	for _, e := range o.EmailHistory() {
		emails = append(emails, EmailView{
			Template: e.TemplateID, Subject: e.Subject, To: e.To, Status: string(e.Status), SentAt: e.SentAt,
		})
	}
	pkg := o.Package()
	return Order{
		ID:                o.ID().String(),
		Number:            o.Number(),
		Status:            o.Status().String(),
		PaymentStatus:     o.PaymentStatus().String(),
		FulfillmentStatus: o.FulfillmentStatus().String(),
		Items:             respItems,
		Totals:            Totals(o.Totals()),
		TaxRate:           o.TaxRate(),
		RefundedAmount:    o.RefundedAmount(),
		Customer:          Customer(o.Customer()),
		ShippingAddress:   Address(o.ShippingAddress()),
		BillingAddress:    Address(o.BillingAddress()),
		Tracking:          TrackingInfo(o.Tracking()),
		PickedItems:       nonNil(o.PickedItems()),
		PackedItems:       nonNil(o.PackedItems()),
		Package:           PackageInfo{Weight: pkg.Weight, Dimensions: Dimensions(pkg.Dimensions)},
		Notes:             notes,
		EmailHistory:      emails,
		CustomerNote:      o.CustomerNote(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
		Version:           o.Version(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type OrderSummary struct {
	ID                string    `json:"id"`
	Number            string    `json:"number"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	ItemCount         int       `json:"item_count"`
	Total             float64   `json:"total"`
	RefundedAmount    float64   `json:"refunded_amount"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type OrderPage struct {
	Orders []OrderSummary `json:"orders"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func newOrderPage(page queries.ListOrdersQueryResponse) OrderPage {
	out := OrderPage{Orders: make([]OrderSummary, len(page.Orders)), Limit: page.Limit, Offset: page.Offset}
	for i, s := range page.Orders {
		out.Orders[i] = OrderSummary{
			ID:                s.ID.String(),
			Number:            s.Number,
			Status:            s.Status.String(),
			PaymentStatus:     s.PaymentStatus.String(),
			FulfillmentStatus: s.FulfillmentStatus.String(),
			CustomerName:      s.CustomerName,
			CustomerEmail:     s.CustomerEmail,
			ItemCount:         s.ItemCount,
			Total:             s.Total,
			RefundedAmount:    s.RefundedAmount,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		}
	}
	return out
}

type Timeline struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Events      []TimelineEvent `json:"events"`
}

func newTimeline(t queries.GetTimelineQueryResponse) Timeline {
	out := Timeline{OrderID: t.OrderID.String(), OrderNumber: t.OrderNumber, Events: make([]TimelineEvent, len(t.Events))}
	for i, e := range t.Events {
		out.Events[i] = TimelineEvent(e)
	}
	return out
}

type BulkFailure struct {
	OrderID string `json:"order_id"`
	Code    int    `json:"code"`
	Error   string `json:"error"`
}

type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

func newBulkResult(r commands.BulkSetStatusResult) BulkResult {
	out := BulkResult{Succeeded: make([]string, len(r.Succeeded)), Failed: make([]BulkFailure, len(r.Failed))}
	for i, id := range r.Succeeded {
		out.Succeeded[i] = id.String()
	}
	for i, f := range r.Failed {
		out.Failed[i] = BulkFailure{OrderID: f.OrderID.String(), Code: statusCode(f.Err), Error: f.Err.Error()}
	}
	return out
}

type Carrier struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	URLTemplate string `json:"url_template"`
}

func newCarriers(carriers []services.Carrier) []Carrier {
	out := make([]Carrier, len(carriers))
	for i, c := range carriers {
		out[i] = Carrier(c)
	}
	return out
}
