// Package cliconfig provides configuration types and loading for the stencil CLI.
package cliconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/stencil/pkg/stencil"
)

// Config represents the complete configuration for the stencil CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (STENCIL_*)
// 3. Local config file (.stencilrc.yaml in current directory)
// 4. Global config file (~/.config/stencil/config.yaml)
// 5. Default values (lowest priority)
type Config struct {
	// Engine settings
	Strategy      string `yaml:"strategy" json:"strategy"`
	Pattern       string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	KeyGroup      int    `yaml:"keyGroup" json:"keyGroup"`
	ReplaceGroup  int    `yaml:"replaceGroup" json:"replaceGroup"`
	MaxIterations int    `yaml:"maxIterations" json:"maxIterations"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Variable sources
	VarFiles  []string `yaml:"varFiles,omitempty" json:"varFiles,omitempty"`
	Schema    string   `yaml:"schema,omitempty" json:"schema,omitempty"`
	EnvPrefix string   `yaml:"envPrefix,omitempty" json:"envPrefix,omitempty"`

	// Rendering
	Workers int `yaml:"workers" json:"workers"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Source tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys were explicitly present in a loaded file.
	// It lets Merge apply values whose zero value is meaningful.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceFlag    = "flag"
)

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	var errs []error
	if _, err := stencil.ParseStrategy(c.Strategy); err != nil {
		errs = append(errs, err)
	}
	if c.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("maxIterations %d must be at least 1", c.MaxIterations))
	}
	if c.KeyGroup < 0 {
		errs = append(errs, fmt.Errorf("keyGroup %d must not be negative", c.KeyGroup))
	}
	if c.ReplaceGroup < 0 {
		errs = append(errs, fmt.Errorf("replaceGroup %d must not be negative", c.ReplaceGroup))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Workers))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat))
	}
	if c.Pattern != "" && c.Strategy == string(stencil.StrategyBatch) && c.Source("strategy") != SourceDefault {
		errs = append(errs, errors.New("pattern requires the incremental strategy"))
	}
	return errors.Join(errs...)
}

// Source returns where a key's value came from, or SourceDefault.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}
