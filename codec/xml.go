package codec

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"modelpack/dependency"
)

// XMLTag is the tag of the xml-document codec.
const XMLTag = "xml-document"

// xmlCodec serializes an *etree.Document for any generic XML payload.
type xmlCodec struct{}

// NewXMLCodec returns the xml-document codec.
func NewXMLCodec() Codec { return xmlCodec{} }

func (xmlCodec) Tag() string { return XMLTag }

func (xmlCodec) CanEncode(obj any) bool {
	_, ok := obj.(*etree.Document)
	return ok
}

func (xmlCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	doc, ok := obj.(*etree.Document)
	if !ok {
		return nil, &UnknownObjectTypeError{GoType: fmt.Sprintf("%T", obj)}
	}
	if _, err := doc.WriteTo(w); err != nil {
		return nil, fmt.Errorf("xml-document: write: %w", err)
	}
	return nil, nil
}

func (xmlCodec) Decode(r io.Reader) (any, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("xml-document: read: %w", err)
	}
	return doc, nil
}
