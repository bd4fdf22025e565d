package codec

import (
	"bytes"
	"testing"

	"modelpack/model"
)

func TestBundleCodec_RoundTrip(t *testing.T) {
	c := NewBundleCodec()
	b := model.NewBundle()
	b.Set("weights.bin", []byte{1, 2, 3})
	b.Set("config.json", []byte(`{"a":1}`))

	var buf bytes.Buffer
	if _, err := c.Encode(&buf, *b); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	gotBundle, ok := got.(model.Bundle)
	if !ok {
		t.Fatalf("Decode() returned %T, want model.Bundle", got)
	}
	if gotBundle.ID != b.ID {
		t.Errorf("ID = %v, want %v", gotBundle.ID, b.ID)
	}
	if contents, ok := gotBundle.Get("weights.bin"); !ok || !bytes.Equal(contents, []byte{1, 2, 3}) {
		t.Errorf("weights.bin = %v, ok=%v", contents, ok)
	}
	if contents, ok := gotBundle.Get("config.json"); !ok || string(contents) != `{"a":1}` {
		t.Errorf("config.json = %s, ok=%v", contents, ok)
	}
}

func TestBundleCodec_Empty(t *testing.T) {
	c := NewBundleCodec()
	b := model.NewBundle()

	var buf bytes.Buffer
	if _, err := c.Encode(&buf, *b); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	gotBundle := got.(model.Bundle)
	if len(gotBundle.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(gotBundle.Files))
	}
}
