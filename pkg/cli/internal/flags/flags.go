// Package flags holds the pflag.Value types used by the stencil commands.
package flags

import (
	"strings"

	"github.com/getmockd/stencil/pkg/cli/internal/parse"
)

// StringSlice collects every occurrence of a repeatable flag verbatim.
// Values are never split on commas.
type StringSlice []string

func (s *StringSlice) String() string { return strings.Join(*s, ",") }

func (s *StringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func (s *StringSlice) Type() string { return "stringArray" }

// Assignments is a repeatable name=value flag. Set rejects entries without a
// name, so a malformed --var fails while flags are parsed.
type Assignments []string

func (a *Assignments) String() string { return strings.Join(*a, ",") }

func (a *Assignments) Set(value string) error {
	if _, _, err := parse.KeyValue(value); err != nil {
		return err
	}
	*a = append(*a, value)
	return nil
}

func (a *Assignments) Type() string { return "name=value" }
