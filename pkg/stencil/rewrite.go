package stencil

import (
	"slices"
)

// replacement is a template paired with the value that replaces it.
type replacement struct {
	Template
	value string
}

// rewrite splices every replacement into the stencil, rightmost first, so the
// offsets recorded for templates further left stay valid while the string
// changes length. Replacements must not overlap.
func rewrite(stencil string, reps []replacement) string {
	if len(reps) == 0 {
		return stencil
	}
	slices.SortFunc(reps, func(a, b replacement) int { return b.Start - a.Start })

	out := stencil
	for _, r := range reps {
		out = out[:r.Start] + r.value + out[r.End:]
	}
	return out
}
