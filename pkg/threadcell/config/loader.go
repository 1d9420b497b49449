package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads defaults from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read defaults file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Defaults{}, fmt.Errorf("unsupported defaults file extension: %s", ext)
	}
}

// FromYAML parses YAML data into Defaults.
func FromYAML(data []byte) (Defaults, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Defaults{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into Defaults.
func FromJSON(data []byte) (Defaults, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Defaults{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}
