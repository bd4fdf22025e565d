package codec

import (
	"encoding/gob"
	"io"

	"modelpack/dependency"
)

// DefaultTag is the tag of the catch-all gob codec.
const DefaultTag = "default"

func init() {
	// gob needs concrete types registered before they can flow through an
	// any-typed Encode/Decode. This covers the common scalar and
	// collection shapes; anything else needs its own codec or a
	// gob.Register call from the caller before dumping it.
	for _, v := range []any{
		"", []byte(nil), 0, int64(0), float64(0), true,
		map[string]any{}, []any{}, map[string]string{},
	} {
		gob.Register(v)
	}
}

// defaultCodec serializes any gob-encodable value. It is the pack's
// fallback: registered at the lowest priority, it claims every object no
// codec ahead of it claimed.
type defaultCodec struct{}

// NewDefaultCodec returns the catch-all gob codec.
func NewDefaultCodec() Codec { return defaultCodec{} }

func (defaultCodec) Tag() string { return DefaultTag }

func (defaultCodec) CanEncode(obj any) bool { return true }

func (defaultCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	if err := gob.NewEncoder(w).Encode(&obj); err != nil {
		return nil, err
	}
	return nil, nil
}

func (defaultCodec) Decode(r io.Reader) (any, error) {
	var obj any
	if err := gob.NewDecoder(r).Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}
