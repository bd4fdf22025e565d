package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"runtime/debug"

	"modelpack/dependency"
	"modelpack/model"
)

// TensorTag is the tag of the generic-tensor codec.
const TensorTag = "generic-tensor"

// tensorMagic marks the start of a generic-tensor payload.
const tensorMagic uint32 = 0x4d504b31 // "MPK1"

// tensorCodec serializes model.Tensor with a fixed binary layout: magic,
// rank, shape, element count, then row-major float64 data, all big-endian.
// When the binary carries a release version, it declares a module-version
// dependency on this module's own build version, so a tensor dumped by one
// release can refuse to load under an incompatible one rather than
// silently misreading the layout; a devel build declares none.
type tensorCodec struct{}

// NewTensorCodec returns the generic-tensor codec.
func NewTensorCodec() Codec { return tensorCodec{} }

func (tensorCodec) Tag() string { return TensorTag }

func (tensorCodec) CanEncode(obj any) bool {
	switch obj.(type) {
	case model.Tensor, *model.Tensor:
		return true
	default:
		return false
	}
}

func (tensorCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	var t model.Tensor
	switch v := obj.(type) {
	case model.Tensor:
		t = v
	case *model.Tensor:
		t = *v
	default:
		return nil, &UnknownObjectTypeError{GoType: fmt.Sprintf("%T", obj)}
	}

	want := 1
	for _, dim := range t.Shape {
		want *= dim
	}
	if want != len(t.Data) {
		return nil, fmt.Errorf("generic-tensor: shape %v implies %d elements, got %d", t.Shape, want, len(t.Data))
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.BigEndian, tensorMagic); err != nil {
		return nil, err
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(t.Shape))); err != nil {
		return nil, err
	}
	for _, dim := range t.Shape {
		if err := binary.Write(bw, binary.BigEndian, int64(dim)); err != nil {
			return nil, err
		}
	}
	if err := binary.Write(bw, binary.BigEndian, uint64(len(t.Data))); err != nil {
		return nil, err
	}
	if err := binary.Write(bw, binary.BigEndian, t.Data); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}

	dep, err := moduleVersionDependency()
	if err != nil {
		return nil, fmt.Errorf("generic-tensor: resolve module version: %w", err)
	}
	if dep == nil {
		return nil, nil
	}
	return []dependency.Dependency{dep}, nil
}

func (tensorCodec) Decode(r io.Reader) (any, error) {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, err
	}
	if magic != tensorMagic {
		return nil, fmt.Errorf("generic-tensor: bad magic %#x", magic)
	}

	var rank uint32
	if err := binary.Read(r, binary.BigEndian, &rank); err != nil {
		return nil, err
	}
	shape := make([]int, rank)
	for i := range shape {
		var dim int64
		if err := binary.Read(r, binary.BigEndian, &dim); err != nil {
			return nil, err
		}
		shape[i] = int(dim)
	}

	var n uint64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	data := make([]float64, n)
	if err := binary.Read(r, binary.BigEndian, data); err != nil {
		return nil, err
	}

	return model.Tensor{Shape: shape, Data: data}, nil
}

// moduleVersionDependency resolves this module's own build version and
// returns a module-version dependency pinned to its caret range. A
// devel build (ordinary `go build`/`go test`, which stamps
// info.Main.Version as "(devel)") has no stable version to pin, so it
// returns a nil dependency and nil error rather than guessing a
// constraint; ReadBuildInfo failing outright (a non-module build) is a
// genuine error and is propagated rather than silently dropped.
func moduleVersionDependency() (dependency.Dependency, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, fmt.Errorf("generic-tensor: build info unavailable (not a module build)")
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return nil, nil
	}
	return dependency.NewModuleVersion(info.Main.Path, "^"+info.Main.Version)
}
