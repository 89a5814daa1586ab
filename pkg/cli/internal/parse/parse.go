// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"
)

// KeyValue parses a "key=value" string. The key is trimmed; the value is kept
// as given so values may carry leading spaces.
func KeyValue(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q (want key=value)", s)
	}
	return key, value, nil
}

// KeyValues parses every entry with KeyValue. Later entries win.
func KeyValues(entries []string) (map[string]string, error) {
	result := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, err := KeyValue(e)
		if err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, nil
}

// SplitTrim splits a string by separator and trims each part.
// Empty parts are dropped.
func SplitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
