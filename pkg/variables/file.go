package variables

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a variables file does not hold a mapping at
// the top level.
var ErrNotMapping = errors.New("variables file must contain a mapping at the top level")

// FileError reports a variables file that could not be read or decoded.
type FileError struct {
	Path  string
	Cause error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Cause.Error()
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// LoadFile reads a YAML or JSON variables file into a Map. See FromValue for
// how nested values are named.
func LoadFile(path string) (*Map, error) {
	data, err := ReadTree(path)
	if err != nil {
		return nil, err
	}
	return FromValue(data), nil
}

// LoadDocument reads a YAML or JSON file into a Document for JSONPath lookups.
func LoadDocument(path string) (*Document, error) {
	data, err := ReadTree(path)
	if err != nil {
		return nil, err
	}
	return NewDocument(data), nil
}

// ReadTree reads a YAML or JSON file and returns its top-level mapping with
// every nested mapping keyed by string.
func ReadTree(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Cause: err}
	}
	return DecodeTree(path, raw)
}

// DecodeTree decodes YAML (and therefore JSON) bytes. name is only used in
// error messages.
func DecodeTree(name string, raw []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &FileError{Path: name, Cause: err}
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	tree, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, &FileError{Path: name, Cause: ErrNotMapping}
	}
	return tree, nil
}

// normalize converts map[any]any produced for non-string YAML keys into
// map[string]any, recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
