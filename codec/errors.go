package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownCodec is the sentinel wrapped by UnknownCodecError.
var ErrUnknownCodec = errors.New("unknown codec")

// UnknownCodecError is returned by Registry.ByTag for a tag with no
// registered codec, e.g. a manifest produced by a newer version of this
// module with an extra codec that isn't compiled into the current binary.
type UnknownCodecError struct {
	Tag string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("unknown codec: %s", e.Tag)
}

func (e *UnknownCodecError) Unwrap() error { return ErrUnknownCodec }

// ErrUnknownObjectType is the sentinel wrapped by UnknownObjectTypeError.
var ErrUnknownObjectType = errors.New("unknown object type")

// UnknownObjectTypeError is returned by Registry.FindFor when no
// registered codec claims the given object, including the catch-all
// default codec (which should never happen unless it was never
// registered).
type UnknownObjectTypeError struct {
	GoType string
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("cannot find a suitable codec for object of type %s", e.GoType)
}

func (e *UnknownObjectTypeError) Unwrap() error { return ErrUnknownObjectType }
