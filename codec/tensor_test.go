package codec

import (
	"bytes"
	"testing"

	"modelpack/model"
)

func TestTensorCodec_RoundTrip(t *testing.T) {
	c := NewTensorCodec()
	want := model.Tensor{Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}}

	var buf bytes.Buffer
	if _, err := c.Encode(&buf, want); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	gotTensor, ok := got.(model.Tensor)
	if !ok {
		t.Fatalf("Decode() returned %T, want model.Tensor", got)
	}
	if len(gotTensor.Shape) != 2 || gotTensor.Shape[0] != 2 || gotTensor.Shape[1] != 3 {
		t.Errorf("Shape = %v, want [2 3]", gotTensor.Shape)
	}
	if len(gotTensor.Data) != 6 || gotTensor.Data[5] != 6 {
		t.Errorf("Data = %v, want [1 2 3 4 5 6]", gotTensor.Data)
	}
}

func TestTensorCodec_ShapeMismatch(t *testing.T) {
	c := NewTensorCodec()
	bad := model.Tensor{Shape: []int{2, 2}, Data: []float64{1, 2, 3}}
	var buf bytes.Buffer
	if _, err := c.Encode(&buf, bad); err == nil {
		t.Fatal("expected error for mismatched shape/data length")
	}
}

func TestTensorCodec_CanEncode(t *testing.T) {
	c := NewTensorCodec()
	if !c.CanEncode(model.Tensor{}) {
		t.Error("CanEncode(model.Tensor{}) = false, want true")
	}
	if !c.CanEncode(&model.Tensor{}) {
		t.Error("CanEncode(&model.Tensor{}) = false, want true")
	}
	if c.CanEncode("nope") {
		t.Error("CanEncode(string) = true, want false")
	}
}

func TestTensorCodec_BadMagic(t *testing.T) {
	c := NewTensorCodec()
	if _, err := c.Decode(bytes.NewReader([]byte{0, 0, 0, 0})); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

// TestTensorCodec_Encode_DevelBuildNeverErrors checks the devel-build
// path: under `go test`, info.Main.Version is always "(devel)", so Encode
// must succeed with no dependencies rather than fail or panic.
func TestTensorCodec_Encode_DevelBuildNeverErrors(t *testing.T) {
	c := NewTensorCodec()
	want := model.Tensor{Shape: []int{2}, Data: []float64{1, 2}}
	var buf bytes.Buffer
	deps, err := c.Encode(&buf, want)
	if err != nil {
		t.Fatalf("Encode() in a devel build returned an error = %v, want nil (no stable version to pin)", err)
	}
	if len(deps) != 0 {
		t.Errorf("Encode() in a devel build returned %d deps, want 0", len(deps))
	}
}

func TestModuleVersionDependency_DevelBuildIsNilNotError(t *testing.T) {
	dep, err := moduleVersionDependency()
	if err != nil {
		t.Fatalf("moduleVersionDependency() in a devel build returned an error = %v, want nil", err)
	}
	if dep != nil {
		t.Errorf("moduleVersionDependency() = %v, want nil for a devel build with no stable version", dep)
	}
}
