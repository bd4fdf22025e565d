package codec

import (
	"bytes"
	"fmt"
	goimage "image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	"modelpack/dependency"
	"modelpack/model"
)

// ImageTag is the tag of the image codec.
const ImageTag = "image"

// imageModulePath is the module whose version this codec's dependency
// pins, since the encoded PNG bytes are only guaranteed byte-stable
// across compatible imaging releases.
const imageModulePath = "github.com/disintegration/imaging"

// imageCodec encodes images to PNG via disintegration/imaging, optionally
// resizing first when obj carries a resize hint. On decode it sniffs the
// payload with h2non/filetype as a defense-in-depth check layered on top
// of the pack's own SHA-256 verification.
type imageCodec struct{}

// NewImageCodec returns the image codec.
func NewImageCodec() Codec { return imageCodec{} }

func (imageCodec) Tag() string { return ImageTag }

func (imageCodec) CanEncode(obj any) bool {
	switch obj.(type) {
	case goimage.Image, *model.Image:
		return true
	default:
		return false
	}
}

func (imageCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	var img goimage.Image
	var targetW, targetH int

	switch v := obj.(type) {
	case goimage.Image:
		img = v
	case *model.Image:
		img = v.Img
		targetW, targetH = v.MaxWidth, v.MaxHeight
	default:
		return nil, &UnknownObjectTypeError{GoType: fmt.Sprintf("%T", obj)}
	}

	if targetW > 0 || targetH > 0 {
		img = imaging.Resize(img, targetW, targetH, imaging.Lanczos)
	}

	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("image: encode: %w", err)
	}

	dep, err := dependency.NewModuleVersion(imageModulePath, ">=1.0.0")
	if err != nil {
		return nil, err
	}
	return []dependency.Dependency{dep}, nil
}

func (imageCodec) Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("image: read: %w", err)
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("image: payload does not look like an image")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return img, nil
}
