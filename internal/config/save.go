package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SavePath returns where Save writes: the --config path when given,
// otherwise axion.yaml in ConfigDir.
func SavePath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "axion.yaml")
}

// Save writes the config to SavePath and returns the path written.
func (c *Config) Save() (string, error) {
	path := SavePath()
	return path, c.SaveTo(path)
}

// SaveTo writes the config to a specific path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
