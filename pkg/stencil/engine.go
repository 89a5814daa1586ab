package stencil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getmockd/stencil/pkg/logging"
	"github.com/getmockd/stencil/pkg/util"
)

// Strategy selects the fixpoint algorithm used by an Engine.
type Strategy string

// Available strategies.
const (
	// StrategyBatch rewrites every grouped, then every groupless placeholder
	// found by a scan, and repeats until a scan finds nothing.
	StrategyBatch Strategy = "batch"
	// StrategyIncremental replaces one Pattern match at a time and rescans the
	// whole stencil after each replacement.
	StrategyIncremental Strategy = "incremental"
)

// ParseStrategy parses a strategy name. An empty string selects StrategyBatch.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyBatch:
		return StrategyBatch, nil
	case StrategyIncremental:
		return StrategyIncremental, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, StrategyBatch, StrategyIncremental)
	}
}

// DefaultMaxIterations is the default number of passes before an engine gives
// up on reaching a fixpoint.
const DefaultMaxIterations = 256

// Engine stamps stencils using a Resolver. An Engine holds no mutable state
// and is safe for concurrent use as long as its Resolver is.
type Engine struct {
	resolver      Resolver
	strategy      Strategy
	scanner       *Scanner
	pattern       *Pattern
	maxIterations int
	logger        *slog.Logger

	// err is a configuration error recorded by an Option. Every call fails
	// with it before any scanning happens.
	err error
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxIterations sets the iteration cap. Values below 1 keep the default.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets the logger used for per-pass debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScanner replaces the bash-style scanner used by StrategyBatch.
func WithScanner(s *Scanner) Option {
	return func(e *Engine) {
		if s != nil {
			e.scanner = s
		}
	}
}

// WithPattern switches the engine to StrategyIncremental using the given
// expression. An invalid expression or group index makes every call fail with
// the configuration error.
func WithPattern(expr string, keyGroup, replaceGroup int) Option {
	return func(e *Engine) {
		p, err := NewPattern(expr, keyGroup, replaceGroup)
		if err != nil {
			e.err = err
			return
		}
		e.pattern = p
		e.strategy = StrategyIncremental
	}
}

// New creates a batch engine using bash-style placeholders.
func New(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver:      resolver,
		strategy:      StrategyBatch,
		scanner:       BashScanner(),
		maxIterations: DefaultMaxIterations,
		logger:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BashStyle creates a batch engine for ${name} and ${group:index}.
func BashStyle(resolver Resolver, opts ...Option) *Engine {
	return New(resolver, opts...)
}

// NewIncremental creates an incremental engine for the given pattern.
// A nil pattern selects BashPattern.
func NewIncremental(pattern *Pattern, resolver Resolver, opts ...Option) *Engine {
	e := New(resolver, opts...)
	if e.pattern == nil {
		if pattern == nil {
			pattern = BashPattern
		}
		e.pattern = pattern
	}
	e.strategy = StrategyIncremental
	return e
}

// Strategy returns the algorithm this engine uses.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// MaxIterations returns the iteration cap.
func (e *Engine) MaxIterations() int {
	return e.maxIterations
}

// Scan returns the placeholders the engine would see on its first pass.
func (e *Engine) Scan(stencil string) ([]Template, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.strategy == StrategyIncremental {
		return e.pattern.Scan(stencil), nil
	}
	return e.scanner.Scan(stencil), nil
}

// SafeStamp substitutes every placeholder and returns the outcome as a Result.
// A failed Result never carries a partially substituted string.
func (e *Engine) SafeStamp(stencil string) Result {
	return e.run(context.Background(), stencil)
}

// Stamp substitutes every placeholder. On failure it returns "" and the first
// error encountered.
func (e *Engine) Stamp(stencil string) (string, error) {
	return e.run(context.Background(), stencil).Unwrap()
}

// MustStamp is like Stamp but panics on failure. It is meant for stencils and
// variables fixed at build time.
func (e *Engine) MustStamp(stencil string) string {
	out, err := e.Stamp(stencil)
	if err != nil {
		panic(err)
	}
	return out
}

// StampContext is like Stamp but stops between passes once ctx is done.
func (e *Engine) StampContext(ctx context.Context, stencil string) (string, error) {
	return e.run(ctx, stencil).Unwrap()
}

func (e *Engine) run(ctx context.Context, stencil string) Result {
	if e.err != nil {
		return Failed(e.err)
	}
	if e.resolver == nil {
		return Failed(ErrNoResolver)
	}

	var res Result
	if e.strategy == StrategyIncremental {
		res = e.runIncremental(ctx, stencil)
	} else {
		res = e.runBatch(ctx, stencil)
	}
	if err := res.Err(); err != nil {
		e.logger.Debug("stamp failed",
			"strategy", e.strategy,
			"stencil", util.Truncate(stencil, 0),
			"error", err,
		)
	}
	return res
}

// runBatch implements StrategyBatch. Each pass resolves all grouped templates
// in one rewrite, rescans, then resolves all groupless templates in another.
func (e *Engine) runBatch(ctx context.Context, stencil string) Result {
	current := stencil
	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return Failed(err)
		}

		found := e.scanner.Scan(current)
		if len(found) == 0 {
			return Resolved(current)
		}
		if pass > e.maxIterations {
			return Failed(&IterationLimitError{Limit: e.maxIterations})
		}

		grouped := filterKind(found, KindGrouped)
		e.logger.Debug("stencil pass",
			"strategy", StrategyBatch,
			"pass", pass,
			"grouped", len(grouped),
			"groupless", len(found)-len(grouped),
		)

		if len(grouped) > 0 {
			reps, err := e.resolveAll(grouped)
			if err != nil {
				return Failed(err)
			}
			current = rewrite(current, reps)
			found = e.scanner.Scan(current)
		}

		if groupless := filterKind(found, KindGroupless); len(groupless) > 0 {
			reps, err := e.resolveAll(groupless)
			if err != nil {
				return Failed(err)
			}
			current = rewrite(current, reps)
		}
	}
}

// runIncremental implements StrategyIncremental. The iteration budget is the
// configured cap plus the number of matches in the original stencil, so long
// stencils with many flat placeholders are not cut short.
func (e *Engine) runIncremental(ctx context.Context, stencil string) Result {
	limit := e.maxIterations + len(e.pattern.Scan(stencil))
	current := stencil
	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return Failed(err)
		}

		t, ok := e.pattern.first(current)
		if !ok {
			return Resolved(current)
		}
		if step > limit {
			return Failed(&IterationLimitError{Limit: limit})
		}

		value, ok := e.resolver.LookupName(t.Name)
		if !ok {
			return Failed(unresolvedError(t))
		}
		e.logger.Debug("stencil step", "strategy", StrategyIncremental, "step", step, "key", t.Name)
		current = rewrite(current, []replacement{{Template: t, value: value}})
	}
}

// resolveAll looks up every template, failing on the leftmost missing value.
func (e *Engine) resolveAll(templates []Template) ([]replacement, error) {
	reps := make([]replacement, 0, len(templates))
	for _, t := range templates {
		var (
			value string
			ok    bool
		)
		if t.Kind == KindGrouped {
			value, ok = e.resolver.LookupGroup(t.Group, t.Index)
		} else {
			value, ok = e.resolver.LookupName(t.Name)
		}
		if !ok {
			return nil, unresolvedError(t)
		}
		reps = append(reps, replacement{Template: t, value: value})
	}
	return reps, nil
}

func filterKind(templates []Template, kind Kind) []Template {
	var out []Template
	for _, t := range templates {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
