package pack

import (
	"io"
	"testing"

	"modelpack/codec"
	"modelpack/dependency"
	"modelpack/model"
)

// fakeGatedCodec claims model.Tensor like the real one, but always
// attaches a module-version dependency on a module that can never be
// present in this test binary's build info, to exercise the
// dependencies-not-satisfied path deterministically.
type fakeGatedCodec struct{ codec.Codec }

func newFakeGatedCodec() codec.Codec {
	return fakeGatedCodec{Codec: codecByTag(codec.TensorTag)}
}

func codecByTag(tag string) codec.Codec {
	c, err := codec.Default.ByTag(tag)
	if err != nil {
		panic(err)
	}
	return c
}

func (f fakeGatedCodec) Tag() string { return "fake-gated-tensor" }

func (f fakeGatedCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	deps, err := f.Codec.Encode(w, obj)
	if err != nil {
		return nil, err
	}
	gate, err := dependency.NewModuleVersion("example.com/never/installed", ">=1.0.0")
	if err != nil {
		return nil, err
	}
	return append(deps, gate), nil
}

func TestLoad_DependenciesNotSatisfied(t *testing.T) {
	registry := codec.NewRegistry()
	registry.Register(codec.NewDefaultCodec())
	registry.Register(newFakeGatedCodec())

	stream := &memStream{}
	p, err := Open(stream, WithCodecRegistry(registry))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	tensor := model.Tensor{Shape: []int{1}, Data: []float64{1}}
	if err := p.Dump("gated", tensor); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	_, err = p.Load("gated")
	if err == nil {
		t.Fatal("expected DependenciesNotSatisfiedError")
	}
	if _, ok := err.(*DependenciesNotSatisfiedError); !ok {
		t.Errorf("error = %T, want *DependenciesNotSatisfiedError", err)
	}
}
