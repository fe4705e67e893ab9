// Package kernel provides the shared primitives of the order engine domain.
//
// The package includes:
//   - UUID: a validated identifier value object wrapping github.com/google/uuid
//   - amount helpers: tolerance-aware comparison and display formatting of money values
//
// These primitives are immutable and safe for concurrent use.
package kernel
