package cliconfig

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvStrategy      = "STENCIL_STRATEGY"
	EnvPattern       = "STENCIL_PATTERN"
	EnvKeyGroup      = "STENCIL_KEY_GROUP"
	EnvReplaceGroup  = "STENCIL_REPLACE_GROUP"
	EnvMaxIterations = "STENCIL_MAX_ITERATIONS"
	EnvLogLevel      = "STENCIL_LOG_LEVEL"
	EnvLogFormat     = "STENCIL_LOG_FORMAT"
	EnvLogFile       = "STENCIL_LOG_FILE"
	EnvVarFiles      = "STENCIL_VARS"
	EnvSchema        = "STENCIL_SCHEMA"
	EnvEnvPrefix     = "STENCIL_ENV_PREFIX"
	EnvWorkers       = "STENCIL_WORKERS"
	EnvJSON          = "STENCIL_JSON"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment. Numeric values
// that do not parse are ignored.
func LoadEnvConfig(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	setString := func(env, key string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			cfg.Sources[key] = SourceEnv
		}
	}
	setInt := func(env, key string, dst *int) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				cfg.Sources[key] = SourceEnv
			}
		}
	}

	setString(EnvStrategy, "strategy", &cfg.Strategy)
	setString(EnvPattern, "pattern", &cfg.Pattern)
	setInt(EnvKeyGroup, "keyGroup", &cfg.KeyGroup)
	setInt(EnvReplaceGroup, "replaceGroup", &cfg.ReplaceGroup)
	setInt(EnvMaxIterations, "maxIterations", &cfg.MaxIterations)
	setString(EnvLogLevel, "logLevel", &cfg.LogLevel)
	setString(EnvLogFormat, "logFormat", &cfg.LogFormat)
	setString(EnvLogFile, "logFile", &cfg.LogFile)
	setString(EnvSchema, "schema", &cfg.Schema)
	setInt(EnvWorkers, "workers", &cfg.Workers)

	// STENCIL_ENV_PREFIX may be set to the empty string on purpose.
	if v, ok := os.LookupEnv(EnvEnvPrefix); ok {
		cfg.EnvPrefix = v
		cfg.Sources["envPrefix"] = SourceEnv
	}

	// STENCIL_VARS uses the OS path list separator, like PATH.
	if v := os.Getenv(EnvVarFiles); v != "" {
		cfg.VarFiles = filepath.SplitList(v)
		cfg.Sources["varFiles"] = SourceEnv
	}

	if v := os.Getenv(EnvJSON); v != "" {
		cfg.JSON = parseBool(v)
		cfg.Sources["json"] = SourceEnv
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
