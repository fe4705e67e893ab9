package kernel

import (
	"fmt"

	"orderengine/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not initialized through one of
// the constructor functions. Validate returns it for a zero-value UUID, which is
// also what the nil UUID "00000000-0000-0000-0000-000000000000" parses to.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the value object used to identify orders. It wraps the
// github.com/google/uuid implementation and never exposes a mutable field.
//
// The zero value of UUID is invalid. Build one with NewUUID for a new order,
// or with UUIDFromString / UUIDFromBytes when an identifier arrives from a
// request path, a database row or an outbox payload.
//
// UUID is a comparable value type, safe to copy and to share between goroutines.
// It implements encoding.TextMarshaler and encoding.TextUnmarshaler, so it
// serialises as the canonical string in JSON.
//
// Example usage:
//
//	// Identify a new order
//	id := kernel.NewUUID()
//
//	// Parse the {id} path parameter of PATCH /orders/{id}/status
//	id, err := kernel.UUIDFromString(c.Param("id"))
//	if err != nil {
//	    return err // errs.ErrValueIsInvalid, mapped to 400
//	}
//
//	// Use as map key, e.g. for per-order locks
//	locks := map[kernel.UUID]string{id: token}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4).
// It is how CreateOrder assigns the identifier of a new order.
// The result always passes Validate.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	fmt.Println(orderID.String()) // e.g., "550e8400-e29b-41d4-a716-446655440000"
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses a UUID from its string representation.
// It accepts the standard textual forms:
//   - "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
//   - "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}"
//   - "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8"
//
// A malformed string returns an errs.ValueIsInvalidError; the nil UUID returns
// ErrUUIDIsNotConstructed. The HTTP adapter relies on this to answer 400 for a
// bad order id before any lookup happens.
//
// Example:
//
//	id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//	    return fmt.Errorf("invalid order ID: %w", err)
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// UUIDFromBytes creates a UUID from a byte slice.
// The slice must be exactly 16 bytes long and must not be all zeroes.
//
// Postgres stores order ids in a uuid column; this constructor covers drivers
// and payloads that hand the value back in binary form.
//
// Example:
//
//	raw := []byte{0x6b, 0xa7, 0xb8, 0x10, 0x9d, 0xad, 0x11, 0xd1,
//	              0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8}
//	id, err := kernel.UUIDFromBytes(raw)
//	if err != nil {
//	    return fmt.Errorf("invalid UUID bytes: %w", err)
//	}
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// String returns the standard string representation of the UUID.
// The format is "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" in lower-case hex.
// For a zero value UUID this returns "00000000-0000-0000-0000-000000000000".
//
// It is the form used in:
//   - log fields (zap.Stringer("order_id", id))
//   - redis lock keys ("orderengine:order-lock:<id>")
//   - JSON responses and outbox payloads
//
// Example:
//
//	id := kernel.NewUUID()
//	logger.Info("order created", zap.String("order_id", id.String()))
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying google/uuid value.
// Note: this is a uuid.UUID (a [16]byte array), not a slice; use id.Bytes()[:]
// for a slice.
//
// Persistence adapters use it to fill gorm DTO columns. Domain code compares
// identifiers with IsEqual instead.
//
// Example:
//
//	dto := orderrepo.OrderDTO{ID: snapshot.ID.Bytes()}
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
// Two zero values are equal to each other.
//
// Example:
//
//	id1 := kernel.NewUUID()
//	id2 := kernel.NewUUID()
//	id3 := id1
//
//	fmt.Println(id1.IsEqual(id2)) // false
//	fmt.Println(id1.IsEqual(id3)) // true
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate checks that the UUID was built by a constructor.
// It returns ErrUUIDIsNotConstructed for the zero value.
//
// Commands call it on the order id they carry, so a command built from a
// zero-value struct is rejected before a lock is taken.
//
// Example:
//
//	func NewSetStatusCommand(id kernel.UUID, status order.Status, notify bool) (SetStatusCommand, error) {
//	    if err := errors.Join(id.Validate(), status.Validate()); err != nil {
//	        return SetStatusCommand{}, err
//	    }
//	    // ...
//	}
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler. The output equals String.
func (u UUID) MarshalText() ([]byte, error) {
	return u.id.MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler with the rules of
// UUIDFromString, so a JSON null-UUID is rejected.
func (u *UUID) UnmarshalText(data []byte) error {
	parsed, err := UUIDFromString(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
