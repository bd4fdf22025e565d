package dependency

// Registry maps a dependency type tag to the constructor that can rebuild
// instances of that type from their recorded parameters. It is safe to read
// concurrently once populated; Register is expected to run at init time
// only.
type Registry struct {
	byType map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]Constructor)}
}

// Register adds (or replaces) the constructor for a dependency type tag.
func (r *Registry) Register(tag string, ctor Constructor) {
	r.byType[tag] = ctor
}

// ByType reconstructs a dependency from a tag and its parameters.
// UnknownTypeError is returned for an unregistered tag.
func (r *Registry) ByType(tag string, params map[string]any) (Dependency, error) {
	ctor, ok := r.byType[tag]
	if !ok {
		return nil, &UnknownTypeError{Tag: tag}
	}
	return ctor(params)
}

// Default is the process-wide registry used by the pack package unless a
// caller supplies its own via pack.WithDependencyRegistry.
var Default = NewRegistry()

func init() {
	Default.Register(ModuleVersionType, newModuleVersionFromParams)
}
