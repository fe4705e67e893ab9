package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrVersionIsInvalid       = errors.New("version is invalid")
	ErrConcurrentModification = errors.New("concurrent modification")
)

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// sanitize flattens values that end up inside single-line error messages.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// ObjectNotFoundError reports that an aggregate addressed by ID does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return withCause(
			fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, e.ID),
			e.Cause,
		)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports an input that violates a business or format rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside the [Min, Max] interval.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
			ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max)),
		e.Cause,
	)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory input.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError reports a malformed optimistic-concurrency version.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *VersionIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName), e.Cause)
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// ConcurrentModificationError reports that another writer changed or holds the
// aggregate. Callers are expected to reload and retry.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewConcurrentModificationError(paramName string, id any) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id}
}

func NewConcurrentModificationErrorWithCause(paramName string, id any, cause error) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ConcurrentModificationError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrConcurrentModification, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}
