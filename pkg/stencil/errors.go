package stencil

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors. Use errors.Is to test for them; the concrete error types
// below carry the details.
var (
	// ErrInsufficientCaptureGroups is returned when a Pattern references a
	// capture group its regular expression does not define.
	ErrInsufficientCaptureGroups = errors.New("insufficient capture groups")

	// ErrUnresolved is returned when the resolver has no value for a
	// placeholder that is present in the stencil.
	ErrUnresolved = errors.New("unresolved variable")

	// ErrIterationLimitExceeded is returned when substitution does not reach a
	// fixpoint within the configured number of passes.
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")

	// ErrNoResolver is returned by an Engine built without a Resolver.
	ErrNoResolver = errors.New("engine has no resolver")
)

// PatternError describes an invalid Pattern configuration.
type PatternError struct {
	Expr     string
	Required int
	Have     int
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q has %d capture groups, need at least %d", e.Expr, e.Have, e.Required)
}

func (e *PatternError) Unwrap() error {
	return ErrInsufficientCaptureGroups
}

// UnresolvedVariableError reports a groupless placeholder with no value.
type UnresolvedVariableError struct {
	Name        string
	Placeholder string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("could not find value for variable %q (placeholder %s)", e.Name, e.Placeholder)
}

func (e *UnresolvedVariableError) Unwrap() error {
	return ErrUnresolved
}

// UnresolvedGroupedVariableError reports a grouped placeholder with no value,
// either because the group is unknown or the index is out of range.
type UnresolvedGroupedVariableError struct {
	Group       string
	Index       int
	Placeholder string
}

func (e *UnresolvedGroupedVariableError) Error() string {
	return "could not find value for variable " + strconv.Quote(e.Group) +
		" at index " + strconv.Itoa(e.Index) + " (placeholder " + e.Placeholder + ")"
}

func (e *UnresolvedGroupedVariableError) Unwrap() error {
	return ErrUnresolved
}

// IterationLimitError reports a stencil that kept producing placeholders,
// usually because a variable refers to itself directly or through a cycle.
type IterationLimitError struct {
	Limit int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("no fixpoint after %d passes (self-referencing variable?)", e.Limit)
}

func (e *IterationLimitError) Unwrap() error {
	return ErrIterationLimitExceeded
}

// unresolvedError builds the error matching the template's kind.
func unresolvedError(t Template) error {
	if t.Kind == KindGrouped {
		return &UnresolvedGroupedVariableError{Group: t.Group, Index: t.Index, Placeholder: t.Text}
	}
	return &UnresolvedVariableError{Name: t.Name, Placeholder: t.Text}
}
