package codec

import (
	"bytes"
	"testing"

	"modelpack/model"
)

func TestIonCodec_RoundTrip(t *testing.T) {
	c := NewIonCodec()
	want := model.Record{"name": "widget", "count": int64(3)}

	var buf bytes.Buffer
	if _, err := c.Encode(&buf, want); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	rec, ok := got.(model.Record)
	if !ok {
		t.Fatalf("Decode() returned %T, want model.Record", got)
	}
	if rec["name"] != "widget" {
		t.Errorf("name = %v, want widget", rec["name"])
	}
}

func TestIonCodec_CanEncode(t *testing.T) {
	c := NewIonCodec()
	if !c.CanEncode(model.Record{}) {
		t.Error("CanEncode(model.Record{}) = false, want true")
	}
	// A bare map[string]any is NOT a model.Record and must not be
	// claimed here — yaml-document owns that shape.
	if c.CanEncode(map[string]any{}) {
		t.Error("CanEncode(map[string]any) = true, want false")
	}
}
