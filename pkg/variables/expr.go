package variables

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/stencil/pkg/logging"
	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Expr)(nil)

// ExprError reports a definition that failed to compile.
type ExprError struct {
	Name       string
	Expression string
	Cause      error
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("variable %q: invalid expression %q: %v", e.Name, e.Expression, e.Cause)
}

func (e *ExprError) Unwrap() error {
	return e.Cause
}

// Expr computes variable values from expr-lang expressions evaluated against
// a fixed environment, e.g. {"total": "price * qty"} with {"price": 3, "qty": 2}.
// A definition whose result is a slice also serves ${name:index}.
//
// Programs are compiled once in NewExpr. Because the environment never
// changes, each definition always evaluates to the same value.
type Expr struct {
	programs map[string]*vm.Program
	env      map[string]any
	logger   *slog.Logger
}

// NewExpr compiles every definition against env. Compilation errors are
// reported for the first failing name in sorted order.
func NewExpr(defs map[string]string, env map[string]any, logger *slog.Logger) (*Expr, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if env == nil {
		env = map[string]any{}
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	programs := make(map[string]*vm.Program, len(defs))
	for _, name := range names {
		program, err := expr.Compile(defs[name], expr.Env(env))
		if err != nil {
			return nil, &ExprError{Name: name, Expression: defs[name], Cause: err}
		}
		programs[name] = program
	}

	return &Expr{programs: programs, env: env, logger: logger}, nil
}

// EnvFromMap converts string variables into an expression environment.
// Values that look like numbers or booleans are not converted; use expr
// builtins such as int() or float() in the expression instead.
func EnvFromMap(m *Map) map[string]any {
	env := make(map[string]any)
	for k, v := range m.Names() {
		env[k] = v
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, list := range m.groups {
		vals := make([]any, len(list))
		for i, s := range list {
			vals[i] = s
		}
		env[k] = vals
	}
	return env
}

func (e *Expr) run(name string) (any, bool) {
	program, ok := e.programs[name]
	if !ok {
		return nil, false
	}
	out, err := expr.Run(program, e.env)
	if err != nil {
		e.logger.Warn("expression failed", "variable", name, "error", err)
		return nil, false
	}
	return out, true
}

// LookupName implements stencil.Resolver.
func (e *Expr) LookupName(name string) (string, bool) {
	out, ok := e.run(name)
	if !ok {
		return "", false
	}
	return FormatValue(out), true
}

// LookupGroup implements stencil.Resolver.
func (e *Expr) LookupGroup(group string, index int) (string, bool) {
	out, ok := e.run(group)
	if !ok || out == nil || index < 0 {
		return "", false
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", false
	}
	if index >= rv.Len() {
		return "", false
	}
	return FormatValue(rv.Index(index).Interface()), true
}
