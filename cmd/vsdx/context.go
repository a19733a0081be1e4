package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadContext reads a YAML mapping of placeholder names to values and
// applies the --set overrides on top of it.
func loadContext(path string, overrides map[string]string) (map[string]any, error) {
	ctx := make(map[string]any)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read context: %w", err)
		}
		if err := yaml.Unmarshal(data, &ctx); err != nil {
			return nil, fmt.Errorf("failed to parse context %s: %w", path, err)
		}
	}
	for k, v := range overrides {
		ctx[k] = v
	}
	return ctx, nil
}
