package codec

import (
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"modelpack/dependency"
)

// YAMLTag is the tag of the yaml-document codec.
const YAMLTag = "yaml-document"

// yamlCodec serializes a generic YAML document: anything implementing
// yaml.Marshaler, plus the common map[string]any shape produced by
// yaml.Unmarshal into an empty interface.
type yamlCodec struct{}

// NewYAMLCodec returns the yaml-document codec.
func NewYAMLCodec() Codec { return yamlCodec{} }

func (yamlCodec) Tag() string { return YAMLTag }

func (yamlCodec) CanEncode(obj any) bool {
	switch obj.(type) {
	case map[string]any, yaml.Marshaler:
		return true
	default:
		return false
	}
}

func (yamlCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(obj); err != nil {
		return nil, fmt.Errorf("yaml-document: encode: %w", err)
	}
	return nil, nil
}

func (yamlCodec) Decode(r io.Reader) (any, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml-document: decode: %w", err)
	}
	return doc, nil
}
