package stencil

import (
	"testing"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		stencil  string
		reps     []replacement
		expected string
	}{
		{
			name:     "no replacements",
			stencil:  "unchanged",
			expected: "unchanged",
		},
		{
			name:    "longer values keep later offsets valid",
			stencil: "${a}-${b}",
			reps: []replacement{
				{Template: Template{Start: 0, End: 4}, value: "first-value"},
				{Template: Template{Start: 5, End: 9}, value: "second"},
			},
			expected: "first-value-second",
		},
		{
			name:    "shorter values",
			stencil: "${long_name}${other_name}",
			reps: []replacement{
				{Template: Template{Start: 0, End: 12}, value: "1"},
				{Template: Template{Start: 12, End: 25}, value: "2"},
			},
			expected: "12",
		},
		{
			name:    "input order does not matter",
			stencil: "[${x}][${y}][${z}]",
			reps: []replacement{
				{Template: Template{Start: 7, End: 11}, value: "Y"},
				{Template: Template{Start: 1, End: 5}, value: "X"},
				{Template: Template{Start: 13, End: 17}, value: "Z"},
			},
			expected: "[X][Y][Z]",
		},
		{
			name:    "empty value",
			stencil: "a${x}b",
			reps: []replacement{
				{Template: Template{Start: 1, End: 5}, value: ""},
			},
			expected: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rewrite(tt.stencil, tt.reps)
			if got != tt.expected {
				t.Errorf("rewrite() = %q, want %q", got, tt.expected)
			}
		})
	}
}
