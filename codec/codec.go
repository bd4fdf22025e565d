// Package codec implements the pack's pluggable serializer registry:
// priority-ordered dispatch by payload type (CanEncode/FindFor) and by
// recorded tag (ByTag). Register prepends, so the most specific codec
// wins dispatch.
package codec

import (
	"io"

	"modelpack/dependency"
)

// Codec serializes and deserializes a family of Go values to and from a
// pack slot's payload stream.
type Codec interface {
	// Tag is the stable identifier recorded in the manifest and used by
	// ByTag to recover this codec on load.
	Tag() string
	// CanEncode reports whether this codec claims obj. Registries probe
	// codecs in priority order and use the first match.
	CanEncode(obj any) bool
	// Encode writes obj's serialized form to w and returns the context
	// dependencies that must hold for a future Decode of the same bytes
	// to be trusted.
	Encode(w io.Writer, obj any) ([]dependency.Dependency, error)
	// Decode reconstructs a value from a stream previously produced by
	// Encode.
	Decode(r io.Reader) (any, error)
}

// Constructor builds a fresh Codec instance for registration.
type Constructor func() Codec
