package stencil

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the flavour of a placeholder occurrence.
type Kind int

// Placeholder kinds.
const (
	// KindGroupless is a reference to a single named variable: ${name}.
	KindGroupless Kind = iota
	// KindGrouped is a reference to an element of a named list: ${group:index}.
	KindGrouped
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGroupless:
		return "groupless"
	case KindGrouped:
		return "grouped"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "groupless":
		*k = KindGroupless
	case "grouped":
		*k = KindGrouped
	default:
		return fmt.Errorf("unknown placeholder kind %q", b)
	}
	return nil
}

// Template is a single placeholder located in a stencil.
// Start and End are byte offsets; stencil[Start:End] is the span that gets
// replaced, closing delimiter included.
type Template struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Kind  Kind `json:"kind"`

	// Name is set for KindGroupless.
	Name string `json:"name,omitempty"`

	// Group and Index are set for KindGrouped.
	Group string `json:"group,omitempty"`
	Index int    `json:"index,omitempty"`

	// Text is the full matched placeholder, e.g. "${lean:0}".
	Text string `json:"text"`
}

// MarshalJSON writes index for every grouped template, index 0 included, and
// leaves it out for groupless ones.
func (t Template) MarshalJSON() ([]byte, error) {
	type plain Template
	out := struct {
		plain
		Index *int `json:"index,omitempty"`
	}{plain: plain(t)}
	if t.Kind == KindGrouped {
		idx := t.Index
		out.Index = &idx
	}
	return json.Marshal(out)
}

// Key returns the lookup key of the template in "name" or "group:index" form.
func (t Template) Key() string {
	if t.Kind == KindGrouped {
		return t.Group + ":" + strconv.Itoa(t.Index)
	}
	return t.Name
}

// overlaps reports whether the two spans share at least one byte.
func (t Template) overlaps(o Template) bool {
	return t.Start < o.End && o.Start < t.End
}
