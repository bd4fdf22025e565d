package dependency

import (
	"runtime/debug"
	"testing"
)

func TestNewModuleVersion_InvalidConstraint(t *testing.T) {
	_, err := NewModuleVersion("github.com/google/uuid", "not-a-constraint!!")
	if err == nil {
		t.Fatal("expected error for invalid constraint")
	}
	if _, ok := err.(*WrongFormatError); !ok {
		t.Errorf("error = %T, want *WrongFormatError", err)
	}
}

func TestNewModuleVersion_EmptyModulePath(t *testing.T) {
	_, err := NewModuleVersion("", ">=1.0.0")
	if err == nil {
		t.Fatal("expected error for empty module path")
	}
}

func TestModuleVersion_IDRoundTrip(t *testing.T) {
	mv, err := NewModuleVersion("github.com/google/uuid", ">=1.6.0")
	if err != nil {
		t.Fatalf("NewModuleVersion() error = %v", err)
	}
	want := "module-version:github.com/google/uuid->=1.6.0"
	if mv.ID() != want {
		t.Errorf("ID() = %s, want %s", mv.ID(), want)
	}
	if mv.Type() != ModuleVersionType {
		t.Errorf("Type() = %s, want %s", mv.Type(), ModuleVersionType)
	}
}

func TestModuleVersion_IsSatisfied_UnknownModule(t *testing.T) {
	mv, err := NewModuleVersion("example.com/definitely/not/a/real/module", ">=1.0.0")
	if err != nil {
		t.Fatalf("NewModuleVersion() error = %v", err)
	}
	if mv.IsSatisfied() {
		t.Error("IsSatisfied() = true for a module absent from build info, want false (fail closed)")
	}
}

func TestModuleVersion_SatisfiedByBuildInfo_MainModule(t *testing.T) {
	mv, err := NewModuleVersion("modelpack", "^1.2.0")
	if err != nil {
		t.Fatalf("NewModuleVersion() error = %v", err)
	}
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "modelpack", Version: "v1.2.3"},
	}
	if !mv.satisfiedByBuildInfo(info) {
		t.Error("satisfiedByBuildInfo() = false for a matching main module, want true")
	}
}

func TestModuleVersion_SatisfiedByBuildInfo_MainModuleVersionMismatch(t *testing.T) {
	mv, err := NewModuleVersion("modelpack", "^2.0.0")
	if err != nil {
		t.Fatalf("NewModuleVersion() error = %v", err)
	}
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "modelpack", Version: "v1.2.3"},
	}
	if mv.satisfiedByBuildInfo(info) {
		t.Error("satisfiedByBuildInfo() = true for a main module version outside the constraint, want false")
	}
}

func TestModuleVersion_SatisfiedByBuildInfo_MainModuleDevel(t *testing.T) {
	mv, err := NewModuleVersion("modelpack", "^1.2.0")
	if err != nil {
		t.Fatalf("NewModuleVersion() error = %v", err)
	}
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "modelpack", Version: "(devel)"},
	}
	if mv.satisfiedByBuildInfo(info) {
		t.Error("satisfiedByBuildInfo() = true for a devel build with no parseable version, want false")
	}
}

func TestModuleVersion_SatisfiedByBuildInfo_Dependency(t *testing.T) {
	mv, err := NewModuleVersion("github.com/google/uuid", ">=1.0.0")
	if err != nil {
		t.Fatalf("NewModuleVersion() error = %v", err)
	}
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "modelpack", Version: "v1.0.0"},
		Deps: []*debug.Module{
			{Path: "github.com/google/uuid", Version: "v1.6.0"},
		},
	}
	if !mv.satisfiedByBuildInfo(info) {
		t.Error("satisfiedByBuildInfo() = false for a matching dependency, want true")
	}
}

func TestNewModuleVersionFromParams(t *testing.T) {
	params := map[string]any{
		"module_path": "github.com/google/uuid",
		"constraint":  ">=1.0.0",
	}
	dep, err := newModuleVersionFromParams(params)
	if err != nil {
		t.Fatalf("newModuleVersionFromParams() error = %v", err)
	}
	if dep.Type() != ModuleVersionType {
		t.Errorf("Type() = %s, want %s", dep.Type(), ModuleVersionType)
	}
}

func TestNewModuleVersionFromParams_UnknownKey(t *testing.T) {
	params := map[string]any{
		"module_path": "github.com/google/uuid",
		"constraint":  ">=1.0.0",
		"extra":       "nope",
	}
	if _, err := newModuleVersionFromParams(params); err == nil {
		t.Fatal("expected error for unknown parameter key")
	}
}

func TestDefaultRegistry_ModuleVersion(t *testing.T) {
	dep, err := Default.ByType(ModuleVersionType, map[string]any{
		"module_path": "github.com/google/uuid",
		"constraint":  ">=1.0.0",
	})
	if err != nil {
		t.Fatalf("Default.ByType() error = %v", err)
	}
	if dep.ID() == "" {
		t.Error("ID() is empty")
	}
}

func TestRegistry_ByType_Unknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ByType("nonsense", nil); err == nil {
		t.Fatal("expected UnknownTypeError")
	}
}
