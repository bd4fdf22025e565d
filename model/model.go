// Package model defines the generic value types the shipped codecs
// operate on, standing in for the concrete ML-framework objects (arrays,
// multi-file estimators, images) a real registry would hold leaves for.
package model

import (
	"image"

	"github.com/google/uuid"
)

// Image wraps a decoded image together with an optional resize hint; the
// image codec resizes to MaxWidth x MaxHeight before encoding. When both
// are set the image is scaled to exactly that size, without keeping its
// aspect ratio; when one is zero it is derived from the other to keep the
// aspect ratio; when both are zero the image is not resized.
type Image struct {
	Img                 image.Image
	MaxWidth, MaxHeight int
}

// Tensor is a flat, shaped array of float64 values, serialized by the
// generic-tensor codec using a fixed binary layout.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Record is a generic Ion-serializable struct, distinguished from a plain
// map[string]any (which the yaml-document codec claims instead) by its
// named type.
type Record map[string]any

// Bundle is a named set of in-memory file blobs, serialized by the bundle
// codec as a tar archive. It models a multi-file artifact the way a
// directory-based model checkpoint would be laid out on disk, without
// requiring one. ID identifies this particular staging instance, the way
// a bundle assembled from a temp directory on disk would be named.
type Bundle struct {
	ID    uuid.UUID
	Files map[string][]byte
}

// NewBundle returns an empty bundle, stamped with a fresh time-ordered id,
// ready for Set calls.
func NewBundle() *Bundle {
	return &Bundle{ID: uuid.Must(uuid.NewV7()), Files: make(map[string][]byte)}
}

// Set stores (or replaces) the contents of a named file in the bundle.
func (b *Bundle) Set(name string, contents []byte) {
	if b.Files == nil {
		b.Files = make(map[string][]byte)
	}
	b.Files[name] = contents
}

// Get returns the contents of a named file, if present.
func (b *Bundle) Get(name string) ([]byte, bool) {
	contents, ok := b.Files[name]
	return contents, ok
}
