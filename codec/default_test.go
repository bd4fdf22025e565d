package codec

import (
	"bytes"
	"testing"
)

func TestDefaultCodec_RoundTrip(t *testing.T) {
	c := NewDefaultCodec()
	want := map[string]any{"a": "b", "n": 3}

	var buf bytes.Buffer
	if _, err := c.Encode(&buf, want); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	doc, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Decode() returned %T, want map[string]any", got)
	}
	if doc["a"] != "b" {
		t.Errorf("a = %v, want b", doc["a"])
	}
}

func TestDefaultCodec_CanEncodeAnything(t *testing.T) {
	c := NewDefaultCodec()
	for _, v := range []any{1, "s", true, 3.14, []byte("x")} {
		if !c.CanEncode(v) {
			t.Errorf("CanEncode(%v) = false, want true", v)
		}
	}
}
