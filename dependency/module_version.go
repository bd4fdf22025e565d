package dependency

import (
	"fmt"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// ModuleVersionType is the registry tag for ModuleVersion dependencies.
const ModuleVersionType = "module-version"

// ModuleVersion records that a named Go module must be present in the
// running binary at a version matching a semver constraint
// (Masterminds/semver), resolved against runtime/debug.ReadBuildInfo's
// recorded module list.
type ModuleVersion struct {
	ModulePath string
	Constraint string

	constraint *semver.Constraints
}

// NewModuleVersion builds a ModuleVersion dependency, failing with
// WrongFormatError if constraint is not a syntactically valid semver
// constraint set.
func NewModuleVersion(modulePath, constraint string) (*ModuleVersion, error) {
	if modulePath == "" {
		return nil, &WrongFormatError{Reason: "module-version dependency requires a module path"}
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, &WrongFormatError{Reason: fmt.Sprintf("invalid version constraint %q: %v", constraint, err)}
	}
	return &ModuleVersion{ModulePath: modulePath, Constraint: constraint, constraint: c}, nil
}

func newModuleVersionFromParams(params map[string]any) (Dependency, error) {
	modulePath, _ := params["module_path"].(string)
	constraint, _ := params["constraint"].(string)
	for k := range params {
		if k != "module_path" && k != "constraint" {
			return nil, &WrongFormatError{Reason: fmt.Sprintf("unknown module-version parameter: %s", k)}
		}
	}
	return NewModuleVersion(modulePath, constraint)
}

// ID returns the stable identifier this dependency is referenced by.
func (m *ModuleVersion) ID() string {
	return fmt.Sprintf("%s:%s-%s", ModuleVersionType, m.ModulePath, m.Constraint)
}

// Type returns the registry tag.
func (m *ModuleVersion) Type() string { return ModuleVersionType }

// Params returns the jsonable parameters for this dependency.
func (m *ModuleVersion) Params() map[string]any {
	return map[string]any{
		"module_path": m.ModulePath,
		"constraint":  m.Constraint,
	}
}

// IsSatisfied reports whether ModulePath is present in the running binary's
// build info at a version matching Constraint. ModulePath is checked
// against both the main module and its dependencies, since a module can
// declare a precondition on its own released version (the main module
// never appears in BuildInfo.Deps). A module that cannot be found, or
// whose recorded version cannot be parsed as semver, is treated as
// unsatisfied — this never fails open.
func (m *ModuleVersion) IsSatisfied() bool {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return false
	}
	return m.satisfiedByBuildInfo(info)
}

// satisfiedByBuildInfo is IsSatisfied's logic over an explicit BuildInfo,
// split out so the main-module-vs-dependency lookup can be exercised
// against a fabricated BuildInfo in tests, where the real one is always an
// unversioned devel build.
func (m *ModuleVersion) satisfiedByBuildInfo(info *debug.BuildInfo) bool {
	if info.Main.Path == m.ModulePath {
		return m.versionSatisfies(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path != m.ModulePath {
			continue
		}
		return m.versionSatisfies(dep.Version)
	}
	return false
}

func (m *ModuleVersion) versionSatisfies(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return m.constraint.Check(v)
}
