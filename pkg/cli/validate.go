package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/stencil/pkg/cli/internal/flags"
	"github.com/getmockd/stencil/pkg/cli/internal/output"
	"github.com/getmockd/stencil/pkg/variables"
)

// ValidateResult is the --json result for one variable file.
type ValidateResult struct {
	File       string                `json:"file"`
	Valid      bool                  `json:"valid"`
	Variables  int                   `json:"variables,omitempty"`
	Error      string                `json:"error,omitempty"`
	Violations []variables.Violation `json:"violations,omitempty"`
}

var (
	validateFiles  flags.StringSlice
	validateSchema string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check variable files, optionally against a JSON Schema",
	Long: `Check that variable files parse as a YAML or JSON mapping and, when a
schema is given (--schema or the config's schema key), that they satisfy it.`,
	Example: `  stencil validate --vars vars.yaml
  stencil validate --vars base.yaml --vars prod.yaml --schema vars.schema.json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Var(&validateFiles, "vars", "Variable file to check (repeatable, default: varFiles from config)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema the files must satisfy (default: schema from config)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	files := []string(validateFiles)
	if len(files) == 0 {
		files = cfg.VarFiles
	}
	if len(files) == 0 {
		return errors.New("nothing to validate: pass --vars FILE or set varFiles in the config")
	}
	schemaPath := validateSchema
	if schemaPath == "" {
		schemaPath = cfg.Schema
	}

	var schema *variables.Schema
	if schemaPath != "" {
		var err error
		if schema, err = variables.LoadSchema(schemaPath); err != nil {
			return err
		}
	}

	results := make([]ValidateResult, 0, len(files))
	failed := 0
	for _, path := range files {
		res := validateOne(schema, path)
		if !res.Valid {
			failed++
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := output.JSON(out, results); err != nil {
			return err
		}
		if failed > 0 {
			return errReported
		}
		return nil
	}

	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(out, "OK: %s (%d variables)\n", res.File, res.Variables)
			continue
		}
		fmt.Fprintf(out, "FAIL: %s\n", res.File)
		if len(res.Violations) == 0 {
			fmt.Fprintf(out, "  - %s\n", res.Error)
		}
		for _, v := range res.Violations {
			fmt.Fprintf(out, "  - %s: %s\n", locationOrRoot(v.Location), v.Message)
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d file(s)", failed, len(files))
	}
	return nil
}

func validateOne(schema *variables.Schema, path string) ValidateResult {
	res := ValidateResult{File: path}
	tree, err := variables.ReadTree(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if schema != nil {
		if err := schema.Validate(path, tree); err != nil {
			res.Error = err.Error()
			var schemaErr *variables.SchemaError
			if errors.As(err, &schemaErr) {
				res.Violations = schemaErr.Violations
			}
			return res
		}
	}
	res.Valid = true
	res.Variables = variables.FromValue(tree).Len()
	return res
}

func locationOrRoot(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}
