package variables

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Document)(nil)

// Document resolves variables with JSONPath lookups into a decoded JSON or
// YAML tree.
//
// A plain name is a top-level key. Names containing '.' or '[' are treated as
// a path relative to the root, so ${user.name} works with a pattern whose key
// group admits dots. ${group:index} selects element index of the array at
// key group. Mappings and arrays resolve to compact JSON.
type Document struct {
	data any

	mu    sync.RWMutex
	paths map[string]jp.Expr
}

// NewDocument wraps an already decoded tree.
func NewDocument(data any) *Document {
	return &Document{data: data, paths: make(map[string]jp.Expr)}
}

// ParseDocument parses JSON text into a Document.
func ParseDocument(b []byte) (*Document, error) {
	data, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON document: %w", err)
	}
	return NewDocument(data), nil
}

// Data returns the underlying tree.
func (d *Document) Data() any {
	return d.data
}

// LookupName implements stencil.Resolver.
func (d *Document) LookupName(name string) (string, bool) {
	x, err := d.path(name)
	if err != nil {
		return "", false
	}
	return d.first(x)
}

// LookupGroup implements stencil.Resolver.
func (d *Document) LookupGroup(group string, index int) (string, bool) {
	if index < 0 {
		return "", false
	}
	x, err := d.path(group)
	if err != nil {
		return "", false
	}
	list, ok := x.First(d.data).([]any)
	if !ok || index >= len(list) {
		return "", false
	}
	return formatNode(list[index]), true
}

// Query evaluates an arbitrary JSONPath expression and returns every match
// formatted as a string.
func (d *Document) Query(path string) ([]string, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}
	results := x.Get(d.data)
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = formatNode(r)
	}
	return out, nil
}

func (d *Document) first(x jp.Expr) (string, bool) {
	results := x.Get(d.data)
	if len(results) == 0 {
		return "", false
	}
	return formatNode(results[0]), true
}

// path returns the cached JSONPath expression for a variable name.
func (d *Document) path(name string) (jp.Expr, error) {
	d.mu.RLock()
	if cached, ok := d.paths[name]; ok {
		d.mu.RUnlock()
		return cached, nil
	}
	d.mu.RUnlock()

	var (
		x   jp.Expr
		err error
	)
	switch {
	case strings.HasPrefix(name, "$"):
		x, err = jp.ParseString(name)
	case strings.ContainsAny(name, ".["):
		x, err = jp.ParseString("$." + name)
	default:
		x = jp.R().C(name)
	}
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.paths[name] = x
	d.mu.Unlock()
	return x, nil
}

func formatNode(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return oj.JSON(v, &oj.Options{Sort: true})
	default:
		return FormatValue(v)
	}
}
