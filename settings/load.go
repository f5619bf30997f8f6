package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefinitionFile is the YAML schema for a settings definitions file.
type DefinitionFile struct {
	// Extend keeps the built-in catalog and appends these definitions.
	// When false the file replaces the catalog entirely.
	Extend   bool         `yaml:"extend"`
	Settings []Definition `yaml:"settings"`
}

// Load reads a definitions file and returns the resulting catalog.
// Every definition in the file must validate; the built-in catalog is the
// base when the file sets extend: true.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML definition data. See Load.
func Parse(data []byte) ([]Definition, error) {
	var file DefinitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	for _, d := range file.Settings {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	if !file.Extend {
		return file.Settings, nil
	}

	catalog := DefaultCatalog()
	seen := make(map[string]int, len(catalog))
	for i, d := range catalog {
		seen[d.Key] = i
	}
	for _, d := range file.Settings {
		if i, ok := seen[d.Key]; ok {
			// File entries override built-ins with the same key.
			catalog[i] = d
			continue
		}
		catalog = append(catalog, d)
	}
	return catalog, nil
}

// ReplaceDefinitions swaps the store's catalog for defs. Values whose key
// survives and still validates are carried over; everything else resets
// to its default.
func (s *InMemoryStore) ReplaceDefinitions(defs []Definition) {
	s.install(defs)
}
