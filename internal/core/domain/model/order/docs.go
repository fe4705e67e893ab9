// Package order provides the Order aggregate root of the order engine and the
// rules every change to an order must honour.
//
// The package includes:
//   - Order: the aggregate holding identity, line items, financials, customer
//     snapshot, tracking, fulfillment detail and the audit trail
//   - Status, PaymentStatus, FulfillmentStatus: three independent closed enums,
//     each a small state machine with its own transition rules
//   - Recalculate: the pure financial recalculator
//   - Effect: side effects (notifications, restock, reservation release) queued
//     by operations and drained by the persistence layer into an outbox
//
// Key business rules:
//   - Order status moves pending -> processing -> shipped -> delivered; it can be
//     cancelled from pending or processing; refunded is only reached by a full refund
//   - Fulfillment is nested under processing and moves strictly
//     unfulfilled -> picked -> packed -> dispatched; dispatch also ships the order
//   - Picking and packing are all-or-nothing over the order's product set
//   - Refunds require a paid order and 0 < amount <= total
//   - Financials are always derived from items, discount, shipping and tax rate
//   - Every successful operation appends exactly one timeline event
package order
