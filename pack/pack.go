// Package pack implements the content-addressed object pack: a ZIP
// container holding a JSON manifest (see package manifest) plus one
// SHA-256-named payload entry per live slot, written through a
// pluggable codec registry (see package codec).
package pack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"modelpack/codec"
	"modelpack/dependency"
	"modelpack/hashutil"
	"modelpack/manifest"
)

// truncater is implemented by *os.File and similar backing stores. Open's
// stream parameter is any io.ReadWriteSeeker; when the concrete value
// also supports Truncate, Pack uses it to drop trailing bytes after a
// rewrite produces a shorter file than before.
type truncater interface {
	Truncate(size int64) error
}

// Pack is an open, content-addressed object store backed by a ZIP
// container. The zero value is not usable; construct one with Open.
type Pack struct {
	stream io.ReadWriteSeeker
	raw    []byte
	zr     *zip.Reader

	man    *manifest.Manifest
	codecs *codec.Registry
	deps   *dependency.Registry
	log    *zap.Logger

	closed bool
}

// Open loads an existing pack from stream, or initializes a new one if
// stream is empty. The returned Pack owns no resources beyond stream
// itself; Close does not close stream.
func Open(stream io.ReadWriteSeeker, opts ...Option) (*Pack, error) {
	p := &Pack{
		stream: stream,
		codecs: codec.Default,
		deps:   dependency.Default,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	size, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("pack: seek to end: %w", err)
	}
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("pack: seek to start: %w", err)
	}

	if size == 0 {
		p.man = manifest.New()
		initial := p.buildInitialZip()
		if err := p.persist(initial); err != nil {
			return nil, fmt.Errorf("pack: initialize: %w", err)
		}
		if err := p.load(initial); err != nil {
			return nil, fmt.Errorf("pack: initialize: %w", err)
		}
		return p, nil
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(stream, raw); err != nil {
		return nil, fmt.Errorf("pack: read existing pack: %w", err)
	}
	if err := p.load(raw); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pack) buildInitialZip() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	manifestBytes, err := manifest.Encode(p.man)
	if err != nil {
		// manifest.Encode on a freshly constructed, empty manifest cannot
		// fail; a failure here means a codec bug, not bad input.
		panic(fmt.Sprintf("pack: encode fresh manifest: %v", err))
	}
	w, _ := zw.Create(manifest.Filename)
	_, _ = w.Write(manifestBytes)
	_ = zw.Close()
	return buf.Bytes()
}

func (p *Pack) load(raw []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return &WrongFormatError{Reason: fmt.Sprintf("not a valid zip container: %v", err)}
	}

	manifestBytes, err := readLastNamed(zr, manifest.Filename)
	if err != nil {
		return &WrongFormatError{Reason: "pack is missing its manifest entry"}
	}
	man, err := manifest.Decode(manifestBytes, p.deps)
	if err != nil {
		return err
	}

	p.raw = raw
	p.zr = zr
	p.man = man
	return nil
}

// readLastNamed returns the contents of the last zip entry with the given
// name, mirroring zipfile's own last-duplicate-wins lookup.
func readLastNamed(zr *zip.Reader, name string) ([]byte, error) {
	var match *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			match = f
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no such entry: %s", name)
	}
	rc, err := match.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// lastFileNamed returns the last zip.File with the given name, or nil.
func lastFileNamed(files []*zip.File, name string) *zip.File {
	var match *zip.File
	for _, f := range files {
		if f.Name == name {
			match = f
		}
	}
	return match
}

// Close releases the Pack's in-memory state. It does not close the
// underlying stream, which the caller owns.
func (p *Pack) Close() error {
	p.closed = true
	return nil
}

// HasSlot reports whether key is present in the manifest. It does not
// independently re-check pack-object liveness.
func (p *Pack) HasSlot(key string) bool {
	return p.man.HasSlot(key)
}

// SlotsInfo returns a snapshot of every slot currently in the manifest.
func (p *Pack) SlotsInfo() map[string]manifest.Slot {
	src := p.man.Slots()
	out := make(map[string]manifest.Slot, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// ManifestInfo returns the pack's manifest metadata.
func (p *Pack) ManifestInfo() manifest.Manifest {
	return *p.man
}

// existingPackObjects returns the set of pack-object names currently
// live: the last zip entry for each distinct name (excluding the
// manifest itself) whose size is non-zero. A name whose last entry is
// zero-length is dangling, per spec.
func (p *Pack) existingPackObjects() map[string]bool {
	sizes := make(map[string]int64)
	var order []string
	for _, f := range p.zr.File {
		if f.Name == manifest.Filename {
			continue
		}
		if _, seen := sizes[f.Name]; !seen {
			order = append(order, f.Name)
		}
		sizes[f.Name] = int64(f.UncompressedSize64)
	}
	live := make(map[string]bool, len(order))
	for _, name := range order {
		if sizes[name] > 0 {
			live[name] = true
		}
	}
	return live
}

// Dump serializes obj with the first codec that claims it and stores it
// under a new slot key. It returns SlotKeyError if key already exists.
func (p *Pack) Dump(key string, obj any) error {
	if p.man.HasSlot(key) {
		return &SlotKeyError{Key: key, Reason: "cannot overwrite existing slot"}
	}

	c, err := p.codecs.FindFor(obj)
	if err != nil {
		return err
	}

	var payload bytes.Buffer
	deps, err := c.Encode(&payload, obj)
	if err != nil {
		return fmt.Errorf("pack: encode slot %s: %w", key, err)
	}

	hash, err := hashutil.Hash(bytes.NewReader(payload.Bytes()))
	if err != nil {
		return fmt.Errorf("pack: hash slot %s: %w", key, err)
	}

	depIDs := make([]string, 0, len(deps))
	for _, d := range deps {
		depIDs = append(depIDs, d.ID())
	}
	sort.Strings(depIDs)

	slot := manifest.Slot{Key: key, CodecTag: c.Tag(), SHA256: hash, DependencyIDs: depIDs}

	live := p.existingPackObjects()
	needsPayload := !live[slot.PackObject()]
	if !needsPayload {
		p.log.Debug("skipping duplicate pack object, already present", zap.String("slot", key), zap.String("object", slot.PackObject()))
	}

	// Build the candidate manifest on a clone: p.man must not change until
	// the rewrite below actually persists, so a failed write leaves the
	// in-memory manifest consistent with what's on disk.
	candidate := p.man.Clone()
	if err := candidate.InsertSlot(slot, deps); err != nil {
		return err
	}

	return p.rewrite(func(zw *zip.Writer) error {
		if err := copyExisting(zw, p.zr.File); err != nil {
			return err
		}
		if needsPayload {
			w, err := zw.Create(slot.PackObject())
			if err != nil {
				return err
			}
			if _, err := w.Write(payload.Bytes()); err != nil {
				return err
			}
		}
		return writeManifest(zw, candidate)
	})
}

// Load reconstructs the object stored under key. It returns
// DependenciesNotSatisfiedError if any of the slot's context
// dependencies don't hold in the current process, and SlotChecksumError
// if the stored bytes no longer match the recorded hash.
func (p *Pack) Load(key string) (any, error) {
	slot, ok := p.man.Slot(key)
	if !ok {
		return nil, &SlotKeyError{Key: key, Reason: "no such slot"}
	}

	unsatisfied := slot.FindUnsatisfiedDependencies(p.man.Dependencies())
	if len(unsatisfied) > 0 {
		return nil, &DependenciesNotSatisfiedError{SlotKey: key, DepsIDs: unsatisfied}
	}

	f := lastFileNamed(p.zr.File, slot.PackObject())
	if f == nil {
		return nil, &SlotKeyError{Key: key, Reason: "pack object missing from container"}
	}

	// Two-pass: hash first, decode second. zip.File.Open returns a
	// stream that may not be rewindable, so we open it twice rather
	// than trying to reuse or seek a single reader.
	hashReader, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("pack: open slot %s for hashing: %w", key, err)
	}
	hash, err := hashutil.Hash(hashReader)
	hashReader.Close()
	if err != nil {
		return nil, fmt.Errorf("pack: hash slot %s: %w", key, err)
	}
	if hash != slot.SHA256 {
		return nil, &SlotChecksumError{SlotKey: key}
	}

	c, err := p.codecs.ByTag(slot.CodecTag)
	if err != nil {
		return nil, err
	}

	decodeReader, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("pack: open slot %s for decode: %w", key, err)
	}
	defer decodeReader.Close()
	return c.Decode(decodeReader)
}

// Remove deletes a slot from the manifest and zeroes out any pack object
// left unreferenced by every remaining slot.
func (p *Pack) Remove(key string) error {
	if !p.man.HasSlot(key) {
		return &SlotKeyError{Key: key, Reason: "no such slot"}
	}

	// As in Dump, mutate a clone so p.man only changes once the rewrite
	// below actually persists.
	candidate := p.man.Clone()
	if err := candidate.RemoveSlot(key); err != nil {
		return err
	}

	referenced := make(map[string]bool)
	for _, slot := range candidate.Slots() {
		referenced[slot.PackObject()] = true
	}
	live := p.existingPackObjects()
	var dangling []string
	for name := range live {
		if !referenced[name] {
			dangling = append(dangling, name)
		}
	}
	sort.Strings(dangling)
	for _, name := range dangling {
		p.log.Debug("pruning dangling pack object", zap.String("object", name))
	}

	return p.rewrite(func(zw *zip.Writer) error {
		if err := copyExisting(zw, p.zr.File); err != nil {
			return err
		}
		for _, name := range dangling {
			if _, err := zw.Create(name); err != nil {
				return err
			}
		}
		return writeManifest(zw, candidate)
	})
}

func copyExisting(zw *zip.Writer, files []*zip.File) error {
	for _, f := range files {
		if f.Name == manifest.Filename {
			continue
		}
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("pack: copy existing entry %s: %w", f.Name, err)
		}
	}
	return nil
}

func writeManifest(zw *zip.Writer, man *manifest.Manifest) error {
	man.TouchUpdatedAt()
	data, err := manifest.Encode(man)
	if err != nil {
		return fmt.Errorf("pack: encode manifest: %w", err)
	}
	w, err := zw.Create(manifest.Filename)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// rewrite builds a brand-new ZIP via mutate and persists it.
func (p *Pack) rewrite(mutate func(zw *zip.Writer) error) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := mutate(zw); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("pack: finalize zip: %w", err)
	}
	if err := p.persist(buf.Bytes()); err != nil {
		return err
	}
	return p.load(buf.Bytes())
}

// persist writes data to the underlying stream from offset zero,
// truncating away any trailing bytes from a previous, longer version
// when the stream supports it.
func (p *Pack) persist(data []byte) error {
	if _, err := p.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("pack: seek to start: %w", err)
	}
	if _, err := p.stream.Write(data); err != nil {
		return fmt.Errorf("pack: write: %w", err)
	}
	if t, ok := p.stream.(truncater); ok {
		if err := t.Truncate(int64(len(data))); err != nil {
			return fmt.Errorf("pack: truncate: %w", err)
		}
	}
	return nil
}
