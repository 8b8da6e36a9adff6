package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile builds the configuration from environment variables and then
// overlays values from a YAML file. The file only touches fields it
// names, so env values survive for everything else. Validation runs once,
// after the overlay.
func LoadFile(path string) (*Config, error) {
	cfg := fromEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
