package codec

import (
	"fmt"
	"sync"
)

// Registry dispatches by payload type (priority order) and by tag. Each
// Register call moves the new codec to the front, so the most recently
// registered codec is probed first by FindFor.
type Registry struct {
	mu      sync.RWMutex
	ordered []Codec
	byTag   map[string]Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]Codec)}
}

// Register adds codec to the registry, giving it the highest dispatch
// priority of any codec registered so far.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered = append([]Codec{c}, r.ordered...)
	r.byTag[c.Tag()] = c
}

// FindFor returns the highest-priority codec that claims obj.
func (r *Registry) FindFor(obj any) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.ordered {
		if c.CanEncode(obj) {
			return c, nil
		}
	}
	return nil, &UnknownObjectTypeError{GoType: fmt.Sprintf("%T", obj)}
}

// ByTag returns the codec registered under tag.
func (r *Registry) ByTag(tag string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byTag[tag]
	if !ok {
		return nil, &UnknownCodecError{Tag: tag}
	}
	return c, nil
}

// Default is the process-wide registry used by the pack package unless a
// caller supplies its own via pack.WithCodecRegistry. The shipped codecs
// are registered here by the init function in defaults.go, lowest
// priority first; the comment on builtins there lists the resulting
// dispatch order (most specific first).
var Default = NewRegistry()
