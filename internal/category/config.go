package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML seed file declaring custom categories to load
// at startup, before any stored rules are replayed.
type Config struct {
	Categories []NamedRule `yaml:"categories"`
}

// LoadConfig reads a category seed file. A missing file is not an error:
// the classifier simply starts with the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading categories file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing categories file: %w", err)
	}
	for _, c := range cfg.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("categories file: entry without a name")
		}
	}
	return &cfg, nil
}
