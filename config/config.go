// Package config holds the ambient process configuration for packctl: logging
// setup and the small validated config document that drives it.
package config

import (
	"bytes"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

// Config is the root configuration document for packctl.
type Config struct {
	Version int           `yaml:"version" validate:"eq=1"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns a usable configuration with sane defaults (console
// logging at normal level, no file log), applied whenever no
// user-supplied file is given.
func Default() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
		},
	}
}

// Load reads and validates a YAML configuration file. An empty path returns
// the default configuration unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(path) == 0 {
		return cfg, validate(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config file: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Dump renders a configuration back to YAML, e.g. for inclusion in debug output.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
