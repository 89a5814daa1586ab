package cliconfig

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "stencil"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".stencilrc.yaml", ".stencilrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// knownKeys are the YAML keys a config file may contain.
var knownKeys = map[string]bool{
	"strategy":      true,
	"pattern":       true,
	"keyGroup":      true,
	"replaceGroup":  true,
	"maxIterations": true,
	"logLevel":      true,
	"logFormat":     true,
	"logFile":       true,
	"varFiles":      true,
	"schema":        true,
	"envPrefix":     true,
	"workers":       true,
	"json":          true,
}

// FindLocalConfig searches for .stencilrc.yaml or .stencilrc.yml in the current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findIn(cwd, LocalConfigFileNames), nil
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	return findIn(filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames), nil
}

func findIn(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a Config from a YAML file. Unknown keys are rejected
// with their position so typos do not go unnoticed.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes YAML config data. path is only used in errors.
func ParseConfig(path string, data []byte) (*Config, error) {
	cfg := &Config{
		Sources:   make(map[string]string),
		SetFields: make(map[string]bool),
	}

	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	if len(doc.Content) == 0 {
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{
			Path:    path,
			Line:    root.Line,
			Column:  root.Column,
			Message: "config must be a mapping",
		}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if !knownKeys[key.Value] {
			return nil, &ConfigError{
				Path:    path,
				Line:    key.Line,
				Column:  key.Column,
				Message: "unknown key " + strconv.Quote(key.Value),
			}
		}
		cfg.SetFields[key.Value] = true
	}

	if err := root.Decode(cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	return cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// Load loads configuration from all sources and merges them.
// Precedence: env > explicit or local config > global config > defaults.
// Flags are applied by the caller on top of the result.
//
// When explicitPath is set it replaces the local config lookup and must exist.
func Load(explicitPath string) (*Config, error) {
	// Start with defaults
	cfg := NewDefault()

	// Load global config
	if globalPath, err := FindGlobalConfig(); err == nil && globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		Merge(cfg, globalCfg, SourceGlobal)
	}

	// Load explicit or local config
	if explicitPath != "" {
		fileCfg, err := LoadConfigFile(explicitPath)
		if err != nil {
			return nil, err
		}
		Merge(cfg, fileCfg, SourceFile)
	} else if localPath, err := FindLocalConfig(); err == nil && localPath != "" {
		localCfg, err := LoadConfigFile(localPath)
		if err != nil {
			return nil, err
		}
		Merge(cfg, localCfg, SourceLocal)
	}

	// Load environment variables
	LoadEnvConfig(cfg)

	return cfg, nil
}
