// Package errs provides the typed errors shared by every layer of the order engine.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The available kinds are:
//   - ObjectNotFoundError: an aggregate could not be loaded
//   - ValueIsInvalidError: an input value violates a rule
//   - ValueIsOutOfRangeError: a numeric input is outside its bounds
//   - ValueIsRequiredError: an input value is missing
//   - VersionIsInvalidError: a persisted version counter is malformed
//   - ConcurrentModificationError: another writer won the race for an aggregate
package errs
