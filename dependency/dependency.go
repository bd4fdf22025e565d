// Package dependency implements tagged, serializable context dependencies:
// predicates over the runtime environment attached to a manifest slot and
// evaluated at load time to gate reconstruction.
package dependency

import "fmt"

// Dependency is a predicate with a stable id, evaluated against the current
// process to decide whether a slot can safely be reconstructed.
type Dependency interface {
	// ID is unique within a manifest but must collide across instances that
	// describe the same precondition (same type, same parameters).
	ID() string
	// Type is the registry tag used to reconstruct this dependency.
	Type() string
	// IsSatisfied reports whether the current process meets this
	// precondition. It never fails open: an inconclusive check counts as
	// unsatisfied.
	IsSatisfied() bool
	// Params returns the jsonable parameters recorded alongside Type in the
	// manifest (to_dict's payload, minus the "type" key).
	Params() map[string]any
}

// Constructor builds a Dependency from its recorded parameters (the
// "type"-less remainder of a to_dict payload).
type Constructor func(params map[string]any) (Dependency, error)

// WrongFormatError reports a dependency that could not be reconstructed.
type WrongFormatError struct {
	Reason string
}

func (e *WrongFormatError) Error() string { return "wrong format: " + e.Reason }

// UnknownTypeError is returned by Registry.ByType for an unregistered tag.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown context dependency type: %s", e.Tag)
}
