package manifest

import (
	"sort"

	"modelpack/dependency"
)

// Slot is the manifest's record for one named pack entry: which codec
// produced the bytes, the SHA-256 hash that both addresses the payload and
// verifies it on load, and the ids of the context dependencies that gate
// reconstruction.
type Slot struct {
	Key           string
	CodecTag      string
	SHA256        string
	DependencyIDs []string
}

// PackObject is the name of this slot's payload entry inside the pack's
// ZIP container.
func (s Slot) PackObject() string {
	return s.SHA256 + ".slot"
}

// FindUnsatisfiedDependencies returns, in sorted order, the ids of this
// slot's dependencies that are not satisfied in the current process.
// deps is the manifest-wide dependency table the ids are resolved against.
func (s Slot) FindUnsatisfiedDependencies(deps map[string]dependency.Dependency) []string {
	var unsatisfied []string
	for _, id := range s.DependencyIDs {
		dep, ok := deps[id]
		if !ok || !dep.IsSatisfied() {
			unsatisfied = append(unsatisfied, id)
		}
	}
	sort.Strings(unsatisfied)
	return unsatisfied
}
