package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseVars turns key=value arguments into variables. Values are decoded as
// YAML scalars or collections and fall back to the raw string.
func parseVars(args []string) (map[string]any, error) {
	vars := make(map[string]any, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", arg)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		vars[name] = value
	}
	return vars, nil
}
