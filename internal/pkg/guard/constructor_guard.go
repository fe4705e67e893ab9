// Package guard detects zero-value commands, queries and value objects that
// bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the
// guarded object is a zero value and no specific error was supplied. Validation
// of an unconstructed object therefore never succeeds silently.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. It is embedded
// as an unexported field and only the constructor sets it, so a struct literal
// or a zero value fails Validate.
//
// Every command and query of the order engine carries one. Handlers call the
// command's Validate first, which turns a hand-built command into a typed error
// instead of an operation on a zero order id.
//
// Example usage:
//
//	var ErrRefundCommandIsNotConstructed = errors.New("RefundCommand must be created via NewRefundCommand")
//
//	type RefundCommand struct {
//	    orderID kernel.UUID
//	    amount  float64
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewRefundCommand(orderID kernel.UUID, amount float64) (RefundCommand, error) {
//	    if err := orderID.Validate(); err != nil {
//	        return RefundCommand{}, err
//	    }
//	    if amount <= 0 {
//	        return RefundCommand{}, errs.NewValueIsInvalidError("amount")
//	    }
//	    return RefundCommand{
//	        orderID: orderID,
//	        amount:  amount,
//	        guard:   guard.NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (c RefundCommand) Validate() error {
//	    return c.guard.Validate(ErrRefundCommandIsNotConstructed)
//	}
//
// The guard is a single bool. Copies keep the constructed state, so commands
// can be passed by value.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed. Call it only from
// the constructor of the struct that embeds the guard.
//
// Example:
//
//	func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
//	    if err := orderID.Validate(); err != nil {
//	        return GetOrderQuery{}, err
//	    }
//	    return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
//	}
//
// Returns:
//   - A ConstructorGuard with isConstructed set to true
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was built by its constructor.
//
// For a zero-value guard it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil. A constructed guard
// always returns nil, whatever validationError is.
//
// Parameters:
//   - validationError: the error to report for an unconstructed object
//
// Example:
//
//	func (h SetStatusCommandHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*order.Order, error) {
//	    if err := cmd.Validate(); err != nil {
//	        return nil, err // cmd was a struct literal
//	    }
//	    // ...
//	}
//
// Returns:
//   - nil if the object was constructed
//   - validationError if it was not
//   - ErrDefaultConstructorGuard if it was not and validationError is nil
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
