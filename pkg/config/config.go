// Package config handles invocation defaults for screenpull.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional workspace configuration
// (screenpull.yaml). Command-line flags override these values.
type Config struct {
	// Output directory for extracted screenshots
	Output string `yaml:"output"`

	// Device settings
	DevicePath string `yaml:"devicePath"` // Remote screenshot directory
	Serial     string `yaml:"serial"`     // Device serial

	// Behaviour
	Organize bool `yaml:"organize"` // Reorganize into Run/Test/Step (default true)
	Clean    bool `yaml:"clean"`    // Remove remote files after extraction
	Verbose  bool `yaml:"verbose"`  // Echo adb invocations
}

// Default returns the built-in defaults used when no config file is
// present.
func Default() *Config {
	return &Config{Organize: true}
}

// Load loads configuration from a file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir looks for screenpull.yaml or screenpull.yml in the
// directory, returning defaults when neither exists.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"screenpull.yaml", "screenpull.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}
