package codec

import (
	"archive/tar"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"modelpack/dependency"
	"modelpack/model"
)

// BundleTag is the tag of the bundle codec.
const BundleTag = "bundle"

// bundleIDName is the pseudo-file tar entry carrying the bundle's id, so
// Decode can recover it without a dedicated header field.
const bundleIDName = ".bundle_id"

// bundleCodec serializes model.Bundle as a tar archive, one entry per
// file plus a pseudo-entry recording the bundle id. Entries are written
// in sorted name order for a deterministic payload, so bundles with the
// same id and the same files hash identically and dedup under the same
// pack object; bundles with equal files but different ids do not.
type bundleCodec struct{}

// NewBundleCodec returns the bundle codec.
func NewBundleCodec() Codec { return bundleCodec{} }

func (bundleCodec) Tag() string { return BundleTag }

func (bundleCodec) CanEncode(obj any) bool {
	switch obj.(type) {
	case model.Bundle, *model.Bundle:
		return true
	default:
		return false
	}
}

func (bundleCodec) Encode(w io.Writer, obj any) ([]dependency.Dependency, error) {
	var b model.Bundle
	switch v := obj.(type) {
	case model.Bundle:
		b = v
	case *model.Bundle:
		b = *v
	default:
		return nil, &UnknownObjectTypeError{GoType: fmt.Sprintf("%T", obj)}
	}

	names := make([]string, 0, len(b.Files))
	for name := range b.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tar.NewWriter(w)
	id := b.ID
	if id == uuid.Nil {
		id = uuid.Must(uuid.NewV7())
	}
	if err := writeTarEntry(tw, bundleIDName, []byte(id.String())); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := writeTarEntry(tw, name, b.Files[name]); err != nil {
			return nil, err
		}
	}
	return nil, tw.Close()
}

func writeTarEntry(tw *tar.Writer, name string, contents []byte) error {
	hdr := &tar.Header{Name: name, Size: int64(len(contents)), Mode: 0o644}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("bundle: write header for %s: %w", name, err)
	}
	if _, err := tw.Write(contents); err != nil {
		return fmt.Errorf("bundle: write contents for %s: %w", name, err)
	}
	return nil
}

func (bundleCodec) Decode(r io.Reader) (any, error) {
	b := model.NewBundle()
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bundle: read header: %w", err)
		}
		contents := make([]byte, hdr.Size)
		if _, err := io.ReadFull(tr, contents); err != nil {
			return nil, fmt.Errorf("bundle: read contents for %s: %w", hdr.Name, err)
		}
		if hdr.Name == bundleIDName {
			if id, err := uuid.Parse(string(contents)); err == nil {
				b.ID = id
			}
			continue
		}
		b.Set(hdr.Name, contents)
	}
	return *b, nil
}
