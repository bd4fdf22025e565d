package pack

import (
	"errors"
	"fmt"

	"modelpack/codec"
	"modelpack/manifest"
)

// SlotKeyError reports a slot-key conflict: dumping into a key that
// already exists, or loading/removing a key that doesn't.
type SlotKeyError = manifest.SlotKeyError

// ErrSlotKey is the sentinel wrapped by SlotKeyError.
var ErrSlotKey = manifest.ErrSlotKey

// WrongFormatError reports a manifest that could not be decoded.
type WrongFormatError = manifest.WrongFormatError

// ErrWrongFormat is the sentinel wrapped by WrongFormatError.
var ErrWrongFormat = manifest.ErrWrongFormat

// UnknownCodecError is returned when a slot's recorded codec tag isn't
// registered in the pack's codec registry.
type UnknownCodecError = codec.UnknownCodecError

// ErrUnknownCodec is the sentinel wrapped by UnknownCodecError.
var ErrUnknownCodec = codec.ErrUnknownCodec

// UnknownObjectTypeError is returned when Dump is given an object no
// registered codec claims.
type UnknownObjectTypeError = codec.UnknownObjectTypeError

// ErrUnknownObjectType is the sentinel wrapped by UnknownObjectTypeError.
var ErrUnknownObjectType = codec.ErrUnknownObjectType

// ErrDependenciesNotSatisfied is the sentinel wrapped by
// DependenciesNotSatisfiedError.
var ErrDependenciesNotSatisfied = errors.New("dependencies not satisfied")

// DependenciesNotSatisfiedError reports that a slot could not be loaded
// because one or more of its context dependencies don't hold in the
// current process.
type DependenciesNotSatisfiedError struct {
	SlotKey string
	DepsIDs []string
}

func (e *DependenciesNotSatisfiedError) Error() string {
	return fmt.Sprintf("cannot load slot %s: unsatisfied dependencies: %v", e.SlotKey, e.DepsIDs)
}

func (e *DependenciesNotSatisfiedError) Unwrap() error { return ErrDependenciesNotSatisfied }

// ErrSlotChecksum is the sentinel wrapped by SlotChecksumError.
var ErrSlotChecksum = errors.New("slot checksum error")

// SlotChecksumError reports that a slot's stored payload no longer
// matches the SHA-256 hash recorded for it in the manifest.
type SlotChecksumError struct {
	SlotKey string
}

func (e *SlotChecksumError) Error() string {
	return fmt.Sprintf("slot %s appears corrupted: checksum mismatch", e.SlotKey)
}

func (e *SlotChecksumError) Unwrap() error { return ErrSlotChecksum }
