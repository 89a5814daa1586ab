// Package logging provides structured logging configuration for stencil.
//
// This package wraps log/slog so the engine, the renderer and the CLI log the
// same way. The engine only emits debug records (one per pass), so the
// default level of warn keeps stderr quiet during normal use.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	engine := stencil.New(vars, stencil.WithLogger(logger))
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or via an
// option. If no logger is provided, use logging.Nop().
package logging
