package variables

import (
	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = Chain(nil)

// Chain consults each resolver in order and returns the first value found.
// Nil entries are skipped.
type Chain []stencil.Resolver

// LookupName implements stencil.Resolver.
func (c Chain) LookupName(name string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.LookupName(name); ok {
			return v, true
		}
	}
	return "", false
}

// LookupGroup implements stencil.Resolver.
func (c Chain) LookupGroup(group string, index int) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.LookupGroup(group, index); ok {
			return v, true
		}
	}
	return "", false
}
