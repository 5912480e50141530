package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStoresFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stores.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write stores file: %v", err)
	}
	return path
}

func TestLoadStores(t *testing.T) {
	path := writeStoresFile(t, `stores:
  - name: "Astor Pl"
    number: "115"
  - name: "Brooklyn"
    number: "156"
`)

	stores, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(stores) != 2 {
		t.Fatalf("Expected 2 stores, got: %d", len(stores))
	}
	if stores["Astor Pl"] != "115" {
		t.Errorf("Expected store number '115', got: %q", stores["Astor Pl"])
	}
	if stores["Brooklyn"] != "156" {
		t.Errorf("Expected store number '156', got: %q", stores["Brooklyn"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	stores, err := NewLoader(filepath.Join(t.TempDir(), "missing.yml")).Load()
	if err != nil {
		t.Fatalf("Expected no error for missing file, got: %v", err)
	}
	if len(stores) != 0 {
		t.Errorf("Expected empty map, got: %v", stores)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeStoresFile(t, "stores: [not: valid: yaml")

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for invalid YAML, got none")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "stores:\n  - number: \"115\"\n"},
		{"missing number", "stores:\n  - name: \"Astor Pl\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStoresFile(t, tt.content)
			if _, err := NewLoader(path).Load(); err == nil {
				t.Error("Expected validation error, got none")
			}
		})
	}
}
