package manifest

import (
	"errors"
	"fmt"
)

// ErrSlotKey is the sentinel wrapped by SlotKeyError; use errors.Is(err,
// manifest.ErrSlotKey) to test for any slot-key conflict regardless of
// which operation raised it.
var ErrSlotKey = errors.New("slot key error")

// SlotKeyError reports a slot-key conflict: inserting a key that already
// exists, or operating on a key that doesn't.
type SlotKeyError struct {
	Key    string
	Reason string
}

func (e *SlotKeyError) Error() string {
	return fmt.Sprintf("slot key error: %s: %s", e.Key, e.Reason)
}

func (e *SlotKeyError) Unwrap() error { return ErrSlotKey }

// ErrWrongFormat is the sentinel wrapped by WrongFormatError.
var ErrWrongFormat = errors.New("wrong format")

// WrongFormatError reports a manifest that cannot be decoded: wrong
// protocol version, missing mandatory fields, or a slot referencing a
// dependency id that isn't declared.
type WrongFormatError struct {
	Reason string
}

func (e *WrongFormatError) Error() string {
	return fmt.Sprintf("wrong format: %s", e.Reason)
}

func (e *WrongFormatError) Unwrap() error { return ErrWrongFormat }
