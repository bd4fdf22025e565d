package codec

import (
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"

	"modelpack/dependency"
	"modelpack/model"
)

// IonTag is the tag of the ion-record codec.
const IonTag = "ion-record"

// ionCodec serializes model.Record through ion-go's top-level
// Marshal/Unmarshal, for document-level Ion payloads.
type ionCodec struct{}

// NewIonCodec returns the ion-record codec.
func NewIonCodec() Codec { return ionCodec{} }

func (ionCodec) Tag() string { return IonTag }

func (ionCodec) CanEncode(obj any) bool {
	_, ok := obj.(model.Record)
	return ok
}

func (ionCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	rec, ok := obj.(model.Record)
	if !ok {
		return nil, &UnknownObjectTypeError{GoType: fmt.Sprintf("%T", obj)}
	}
	data, err := ion.Marshal(map[string]any(rec))
	if err != nil {
		return nil, fmt.Errorf("ion-record: marshal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("ion-record: write: %w", err)
	}
	return nil, nil
}

func (ionCodec) Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ion-record: read: %w", err)
	}
	var rec map[string]any
	if err := ion.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ion-record: unmarshal: %w", err)
	}
	return model.Record(rec), nil
}
