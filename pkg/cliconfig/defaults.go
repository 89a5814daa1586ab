package cliconfig

import "github.com/getmockd/stencil/pkg/stencil"

// DefaultStrategy is the fixpoint strategy used when none is configured.
const DefaultStrategy = string(stencil.StrategyBatch)

// DefaultKeyGroup is the capture group holding the lookup key for custom patterns.
const DefaultKeyGroup = 1

// DefaultReplaceGroup is the capture group replaced for custom patterns (0 = whole match).
const DefaultReplaceGroup = 0

// DefaultLogLevel keeps the CLI quiet unless something goes wrong.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// DefaultEnvPrefix is prepended to variable names looked up with --env.
const DefaultEnvPrefix = ""

// DefaultWorkers is the number of files rendered concurrently.
const DefaultWorkers = 4

// defaultKeys lists every key NewDefault marks as SourceDefault.
var defaultKeys = []string{
	"strategy",
	"keyGroup",
	"replaceGroup",
	"maxIterations",
	"logLevel",
	"logFormat",
	"envPrefix",
	"workers",
	"json",
}

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		Strategy:      DefaultStrategy,
		KeyGroup:      DefaultKeyGroup,
		ReplaceGroup:  DefaultReplaceGroup,
		MaxIterations: stencil.DefaultMaxIterations,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		EnvPrefix:     DefaultEnvPrefix,
		Workers:       DefaultWorkers,
		Sources:       make(map[string]string),
	}

	// Mark all as default source
	for _, key := range defaultKeys {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
