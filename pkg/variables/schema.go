package variables

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaError lists every violation found while validating a variables file.
type SchemaError struct {
	Path       string
	Violations []Violation
}

// Violation is a single failed schema constraint.
type Violation struct {
	// Location is a JSON pointer into the variables document.
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		loc := v.Location
		if loc == "" {
			loc = "/"
		}
		parts[i] = loc + ": " + v.Message
	}
	return fmt.Sprintf("%s does not match schema: %s", e.Path, strings.Join(parts, "; "))
}

// Schema is a compiled JSON Schema for variables files.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles a schema given as YAML or JSON bytes.
func CompileSchema(name string, raw []byte) (*Schema, error) {
	tree, err := DecodeTree(name, raw)
	if err != nil {
		return nil, err
	}
	// Convert to JSON so the compiler sees plain JSON types.
	schemaBytes, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	s, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return &Schema{schema: s}, nil
}

// LoadSchema reads and compiles a schema file.
func LoadSchema(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Cause: err}
	}
	return CompileSchema(path, raw)
}

// Validate checks a decoded variables tree. name is used in the error.
func (s *Schema) Validate(name string, tree map[string]any) error {
	// Round-trip through JSON so YAML integers and the like become the
	// json.Number values the validator expects.
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	err = s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	out := &SchemaError{Path: name}
	collectViolations(verr, out)
	return out
}

// ValidateFile reads a variables file and validates it against the schema
// file.
func ValidateFile(varsPath, schemaPath string) error {
	schema, err := LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	tree, err := ReadTree(varsPath)
	if err != nil {
		return err
	}
	return schema.Validate(varsPath, tree)
}

// collectViolations flattens the leaves of a validation error tree.
func collectViolations(err *jsonschema.ValidationError, out *SchemaError) {
	if len(err.Causes) == 0 {
		out.Violations = append(out.Violations, Violation{
			Location: err.InstanceLocation,
			Message:  err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}
