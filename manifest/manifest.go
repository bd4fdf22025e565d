// Package manifest implements the pack manifest: the JSON index of slots
// and context dependencies stored alongside content-addressed payloads in
// a pack's ZIP container.
package manifest

import (
	"time"

	"modelpack/dependency"
)

// ProtocolVersion is the manifest format version this package reads and
// writes. A manifest recorded with a different version is rejected as
// WrongFormatError rather than guessed at.
const ProtocolVersion = 2

// Filename is the name of the manifest entry inside the pack's ZIP
// container.
const Filename = "manifest.json"

// Manifest is the mutable index of a pack: every live slot, and every
// context dependency referenced by at least one slot.
type Manifest struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	dependencies map[string]dependency.Dependency
	slots        map[string]Slot
}

// New returns an empty manifest stamped with the current time.
func New() *Manifest {
	now := time.Now().UTC()
	return &Manifest{
		CreatedAt:    now,
		UpdatedAt:    now,
		dependencies: make(map[string]dependency.Dependency),
		slots:        make(map[string]Slot),
	}
}

// Dependencies returns the manifest-wide dependency table, keyed by
// dependency id. Callers must not mutate the returned map.
func (m *Manifest) Dependencies() map[string]dependency.Dependency {
	return m.dependencies
}

// Slots returns the live slot table, keyed by slot key. Callers must not
// mutate the returned map.
func (m *Manifest) Slots() map[string]Slot {
	return m.slots
}

// Clone returns a copy of the manifest whose top-level maps are
// independent of the receiver's: inserting into or removing from the
// clone never mutates the original. Used by Pack to build a candidate
// manifest to persist before committing it to the in-memory state.
func (m *Manifest) Clone() *Manifest {
	deps := make(map[string]dependency.Dependency, len(m.dependencies))
	for k, v := range m.dependencies {
		deps[k] = v
	}
	slots := make(map[string]Slot, len(m.slots))
	for k, v := range m.slots {
		slots[k] = v
	}
	return &Manifest{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt, dependencies: deps, slots: slots}
}

// Slot looks up a single slot by key.
func (m *Manifest) Slot(key string) (Slot, bool) {
	s, ok := m.slots[key]
	return s, ok
}

// HasSlot reports whether key is present in the manifest.
func (m *Manifest) HasSlot(key string) bool {
	_, ok := m.slots[key]
	return ok
}

// TouchUpdatedAt stamps UpdatedAt with the current time. Every manifest
// mutation that reaches the pack's persisted bytes calls this first, so
// invariant I3 (updated_at >= created_at) always holds.
func (m *Manifest) TouchUpdatedAt() {
	now := time.Now().UTC()
	if now.Before(m.CreatedAt) {
		now = m.CreatedAt
	}
	m.UpdatedAt = now
}

// InsertSlot adds a new slot and merges its dependencies into the
// manifest's dependency table (existing ids win). It returns SlotKeyError
// if the key is already taken.
func (m *Manifest) InsertSlot(slot Slot, deps []dependency.Dependency) error {
	if _, exists := m.slots[slot.Key]; exists {
		return &SlotKeyError{Key: slot.Key, Reason: "slot already exists"}
	}
	for _, dep := range deps {
		if _, exists := m.dependencies[dep.ID()]; !exists {
			m.dependencies[dep.ID()] = dep
		}
	}
	m.slots[slot.Key] = slot
	return nil
}

// RemoveSlot deletes a slot and prunes any dependency left with no
// remaining referrer (invariant I2). It returns SlotKeyError if the key
// isn't present.
func (m *Manifest) RemoveSlot(key string) error {
	if _, exists := m.slots[key]; !exists {
		return &SlotKeyError{Key: key, Reason: "no such slot"}
	}
	delete(m.slots, key)
	m.cleanupDanglingDependencies()
	return nil
}

func (m *Manifest) cleanupDanglingDependencies() {
	referenced := make(map[string]struct{})
	for _, slot := range m.slots {
		for _, id := range slot.DependencyIDs {
			referenced[id] = struct{}{}
		}
	}
	for id := range m.dependencies {
		if _, ok := referenced[id]; !ok {
			delete(m.dependencies, id)
		}
	}
}
