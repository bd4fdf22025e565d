// Package archzip implements the raw diagnostic walk packctl inspect uses
// to show every ZIP entry in a pack file, including shadowed/zero-length
// ones, alongside the live/dangling verdict the pack package's own
// liveness accounting assigns them.
package archzip

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// Entry is one raw ZIP directory record, paired with the liveness verdict
// derived from the last-entry-per-name rule: an entry is Live if it is
// the last one with its name and has non-zero size.
type Entry struct {
	File *zip.File
	Live bool
}

// WalkFunc is called once per entry, in central-directory order.
type WalkFunc func(Entry) error

// Walk opens archivePath and calls walkFn for every entry, live and
// dangling alike. It returns an error (without calling walkFn) for any
// entry whose name is an unsafe path.
func Walk(archivePath string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	liveName := lastLiveName(r.File)

	for i, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		idx, ok := liveName[f.Name]
		live := ok && idx == i
		if err := walkFn(Entry{File: f, Live: live}); err != nil {
			return err
		}
	}
	return nil
}

// lastLiveName maps each entry name to the index of its last occurrence
// with non-zero size, or omits the name if its last occurrence is
// zero-length (dangling).
func lastLiveName(files []*zip.File) map[string]int {
	lastIdx := make(map[string]int)
	for i, f := range files {
		lastIdx[f.Name] = i
	}
	live := make(map[string]int, len(lastIdx))
	for name, idx := range lastIdx {
		if files[idx].UncompressedSize64 > 0 {
			live[name] = idx
		}
	}
	return live
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
