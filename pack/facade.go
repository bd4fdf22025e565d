package pack

import "io"

// defaultSlotKey is the slot used by the Dump/Load facade functions, for
// callers that only ever keep one object per pack.
const defaultSlotKey = "_default"

// Dump opens (or initializes) a pack on stream and stores obj under the
// facade's single default slot.
func Dump(obj any, stream io.ReadWriteSeeker, opts ...Option) error {
	p, err := Open(stream, opts...)
	if err != nil {
		return err
	}
	defer p.Close()
	return p.Dump(defaultSlotKey, obj)
}

// Load opens a pack on stream and loads the object stored under the
// facade's single default slot.
func Load(stream io.ReadWriteSeeker, opts ...Option) (any, error) {
	p, err := Open(stream, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Load(defaultSlotKey)
}
