// Package services provides domain services of the order engine that do not
// belong to a single aggregate.
//
// The package includes:
//   - CarrierResolver: maps a carrier ID and tracking number to a public tracking URL
//
// CarrierResolver satisfies order.TrackingResolver and is handed to
// Order.Dispatch and Order.UpdateTracking by the command handlers.
package services
