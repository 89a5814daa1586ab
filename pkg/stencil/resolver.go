package stencil

// Resolver maps placeholders to values. The second return value reports
// whether a value exists; a missing value only becomes an error when the
// placeholder is actually present in the stencil being stamped.
//
// Implementations should be deterministic for the same inputs. See package
// variables for ready-made resolvers backed by maps, the environment and
// documents.
type Resolver interface {
	LookupName(name string) (string, bool)
	LookupGroup(group string, index int) (string, bool)
}

// NameFunc adapts a plain lookup function to a Resolver with no grouped
// variables.
type NameFunc func(name string) (string, bool)

// LookupName calls f.
func (f NameFunc) LookupName(name string) (string, bool) {
	return f(name)
}

// LookupGroup always reports no value.
func (f NameFunc) LookupGroup(string, int) (string, bool) {
	return "", false
}
