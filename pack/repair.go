package pack

import (
	"fmt"
	"io"
	"os"

	fixzip "github.com/hidez8891/zip"
)

// Repair writes a copy of the pack to dst with every entry's data
// descriptor flag cleared. archive/zip always streams entries with a
// trailing data descriptor (it doesn't know compressed size up front);
// some strict ZIP consumers expect sizes up front in the local file
// header instead, so this produces a container those consumers can read.
//
// hidez8891/zip's OpenReader takes a path, not a stream, so the pack's
// current bytes are staged through a temporary file.
func (p *Pack) Repair(dst io.Writer) error {
	tmp, err := os.CreateTemp("", "modelpack-repair-*.zip")
	if err != nil {
		return fmt.Errorf("pack: repair: stage temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(p.raw); err != nil {
		tmp.Close()
		return fmt.Errorf("pack: repair: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pack: repair: close temp file: %w", err)
	}

	r, err := fixzip.OpenReader(tmpPath)
	if err != nil {
		return fmt.Errorf("pack: repair: open: %w", err)
	}
	defer r.Close()

	w := fixzip.NewWriter(dst)
	defer w.Close()

	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("pack: repair: copy %s: %w", file.Name, err)
		}
	}
	return nil
}
