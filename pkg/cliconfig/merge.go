package cliconfig

// Merge merges source config into target, updating sources tracking.
// Only non-zero values from source are applied, except for keys recorded in
// source.SetFields, which are applied even when zero.
func Merge(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Strategy != "" {
		target.Strategy = source.Strategy
		target.Sources["strategy"] = sourceType
	}
	if source.Pattern != "" {
		target.Pattern = source.Pattern
		target.Sources["pattern"] = sourceType
	}
	if source.KeyGroup != 0 || isSet(source, "keyGroup") {
		target.KeyGroup = source.KeyGroup
		target.Sources["keyGroup"] = sourceType
	}
	// 0 selects the whole match, so only an explicit key can set it.
	if source.ReplaceGroup != 0 || isSet(source, "replaceGroup") {
		target.ReplaceGroup = source.ReplaceGroup
		target.Sources["replaceGroup"] = sourceType
	}
	// An explicit 0 is kept so Validate can reject it.
	if source.MaxIterations != 0 || isSet(source, "maxIterations") {
		target.MaxIterations = source.MaxIterations
		target.Sources["maxIterations"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		target.Sources["logFile"] = sourceType
	}
	if len(source.VarFiles) > 0 {
		target.VarFiles = append([]string(nil), source.VarFiles...)
		target.Sources["varFiles"] = sourceType
	}
	if source.Schema != "" {
		target.Schema = source.Schema
		target.Sources["schema"] = sourceType
	}
	if source.EnvPrefix != "" || isSet(source, "envPrefix") {
		target.EnvPrefix = source.EnvPrefix
		target.Sources["envPrefix"] = sourceType
	}
	if source.Workers != 0 || isSet(source, "workers") {
		target.Workers = source.Workers
		target.Sources["workers"] = sourceType
	}
	// For booleans, checking `if source.JSON` cannot detect an explicit false.
	if source.JSON || isSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// isSet reports whether key was explicitly present in the source config.
// Programmatic configs have no SetFields and report false.
func isSet(cfg *Config, key string) bool {
	return cfg.SetFields != nil && cfg.SetFields[key]
}
