package variables

import (
	"os"
	"strings"

	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Env)(nil)

// DefaultListSeparator splits environment values into grouped lists.
const DefaultListSeparator = ","

// Env resolves variables from the process environment.
// ${NAME} reads Prefix+NAME; ${NAME:i} splits that value on Separator and
// returns element i.
type Env struct {
	Prefix    string
	Separator string

	// lookup defaults to os.LookupEnv.
	lookup func(string) (string, bool)
}

// NewEnv creates an environment resolver with the given key prefix.
func NewEnv(prefix string) *Env {
	return &Env{Prefix: prefix, Separator: DefaultListSeparator, lookup: os.LookupEnv}
}

// EnvFrom creates a resolver over a fixed set of KEY=VALUE pairs, as returned
// by os.Environ.
func EnvFrom(prefix string, environ []string) *Env {
	vals := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vals[k] = v
		}
	}
	return &Env{
		Prefix:    prefix,
		Separator: DefaultListSeparator,
		lookup: func(key string) (string, bool) {
			v, ok := vals[key]
			return v, ok
		},
	}
}

func (e *Env) get(name string) (string, bool) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(e.Prefix + name)
}

// LookupName implements stencil.Resolver.
func (e *Env) LookupName(name string) (string, bool) {
	return e.get(name)
}

// LookupGroup implements stencil.Resolver.
func (e *Env) LookupGroup(group string, index int) (string, bool) {
	v, ok := e.get(group)
	if !ok || index < 0 {
		return "", false
	}
	sep := e.Separator
	if sep == "" {
		sep = DefaultListSeparator
	}
	parts := strings.Split(v, sep)
	if index >= len(parts) {
		return "", false
	}
	return strings.TrimSpace(parts[index]), true
}
