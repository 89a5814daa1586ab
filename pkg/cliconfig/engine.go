package cliconfig

import (
	"log/slog"
	"os"

	"github.com/getmockd/stencil/pkg/logging"
	"github.com/getmockd/stencil/pkg/stencil"
)

// EngineOptions translates the engine settings into stencil options.
// A pattern, or the incremental strategy on its own, selects the incremental
// engine; the bash-style groupless expression is used when no pattern is set.
func (c *Config) EngineOptions(logger *slog.Logger) ([]stencil.Option, error) {
	strategy, err := stencil.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}

	opts := []stencil.Option{
		stencil.WithMaxIterations(c.MaxIterations),
		stencil.WithLogger(logger),
	}
	if c.Pattern != "" || strategy == stencil.StrategyIncremental {
		expr := c.Pattern
		if expr == "" {
			expr = stencil.GrouplessExpr
		}
		if _, err := stencil.NewPattern(expr, c.KeyGroup, c.ReplaceGroup); err != nil {
			return nil, err
		}
		opts = append(opts, stencil.WithPattern(expr, c.KeyGroup, c.ReplaceGroup))
	}
	return opts, nil
}

// NewEngine builds an engine for resolver from the configuration.
func (c *Config) NewEngine(resolver stencil.Resolver, logger *slog.Logger) (*stencil.Engine, error) {
	opts, err := c.EngineOptions(logger)
	if err != nil {
		return nil, err
	}
	return stencil.New(resolver, opts...), nil
}

// LoggingConfig returns the logger settings, writing to stderr. The log
// file, when the caller opens one, records everything from debug up.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:    logging.ParseLevel(c.LogLevel),
		Format:   logging.ParseFormat(c.LogFormat),
		Output:   os.Stderr,
		TeeLevel: logging.LevelDebug,
	}
}
