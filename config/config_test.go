package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("default config version = %d, want 1", cfg.Version)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("default console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoad_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `version: 1
logging:
  console:
    level: debug
  file:
    level: normal
    destination: ` + filepath.Join(tmpDir, "pack.log") + `
    mode: overwrite
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Mode != "overwrite" {
		t.Errorf("file mode = %q, want overwrite", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\nbogus_field: true\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() with unknown field expected an error, got nil")
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\nlogging:\n  console:\n    level: loud\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() with invalid level expected an error, got nil")
	}
}
