// Package config loads the storefront store directory from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads and validates the store directory file.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the stores file into a name → store number map. A missing file
// is not an error: the session layer falls back to the configured default
// store for every name.
func (l *Loader) Load() (map[string]string, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stores file: %w", err)
	}

	var directory Directory
	if err := yaml.Unmarshal(data, &directory); err != nil {
		return nil, fmt.Errorf("failed to parse stores file: %w", err)
	}

	stores := make(map[string]string, len(directory.Stores))
	for _, store := range directory.Stores {
		if err := validate(store); err != nil {
			return nil, fmt.Errorf("invalid store entry in %s: %w", l.path, err)
		}
		stores[store.Name] = store.Number
	}

	return stores, nil
}

func validate(store Store) error {
	if store.Name == "" {
		return fmt.Errorf("store name is required")
	}
	if store.Number == "" {
		return fmt.Errorf("store number is required for %q", store.Name)
	}
	return nil
}
