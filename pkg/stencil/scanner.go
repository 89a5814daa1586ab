package stencil

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// Bash-style placeholder expressions.
const (
	// GrouplessExpr matches ${name}; the name is capture group 1.
	GrouplessExpr = `\$\{([A-Za-z0-9_]+)\}`
	// GroupedExpr matches ${group:index}; group is capture group 1, index group 2.
	GroupedExpr = `\$\{([A-Za-z]+):(\d+)\}`
)

var (
	grouplessRegex = regexp.MustCompile(GrouplessExpr)
	groupedRegex   = regexp.MustCompile(GroupedExpr)

	bashScanner = &Scanner{grouped: groupedRegex, groupless: grouplessRegex}
)

// Scanner locates grouped and groupless placeholders in a stencil.
// The grouped expression must capture the group name in group 1 and the index
// in group 2; the groupless expression captures the name in group 1.
type Scanner struct {
	grouped   *regexp.Regexp
	groupless *regexp.Regexp
}

// BashScanner returns the scanner for ${name} and ${group:index}.
func BashScanner() *Scanner {
	return bashScanner
}

// NewScanner builds a scanner from custom expressions. Either may be empty to
// disable that family.
func NewScanner(groupedExpr, grouplessExpr string) (*Scanner, error) {
	s := &Scanner{}
	if groupedExpr != "" {
		re, err := compileWithGroups(groupedExpr, 2)
		if err != nil {
			return nil, err
		}
		s.grouped = re
	}
	if grouplessExpr != "" {
		re, err := compileWithGroups(grouplessExpr, 1)
		if err != nil {
			return nil, err
		}
		s.groupless = re
	}
	return s, nil
}

func compileWithGroups(expr string, required int) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	if re.NumSubexp() < required {
		return nil, &PatternError{Expr: expr, Required: required, Have: re.NumSubexp()}
	}
	return re, nil
}

// Scan returns every placeholder in the stencil ordered by Start.
// Where a grouped and a groupless match overlap, the grouped one wins.
func (s *Scanner) Scan(stencil string) []Template {
	grouped := s.scanGrouped(stencil)
	groupless := s.scanGroupless(stencil)
	if len(grouped) == 0 {
		return groupless
	}

	out := grouped
	for _, t := range groupless {
		if !overlapsAny(t, grouped) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b Template) int { return a.Start - b.Start })
	return out
}

// scanGrouped finds ${group:index} occurrences. Indices that do not fit in an
// int are skipped and stay in the stencil as literal text.
func (s *Scanner) scanGrouped(stencil string) []Template {
	if s.grouped == nil {
		return nil
	}
	var out []Template
	for _, m := range s.grouped.FindAllStringSubmatchIndex(stencil, -1) {
		if m[2] < 0 || m[4] < 0 {
			continue
		}
		index, err := strconv.Atoi(stencil[m[4]:m[5]])
		if err != nil || index < 0 {
			continue
		}
		out = append(out, Template{
			Start: m[0],
			End:   m[1],
			Kind:  KindGrouped,
			Group: stencil[m[2]:m[3]],
			Index: index,
			Text:  stencil[m[0]:m[1]],
		})
	}
	return out
}

func (s *Scanner) scanGroupless(stencil string) []Template {
	if s.groupless == nil {
		return nil
	}
	var out []Template
	for _, m := range s.groupless.FindAllStringSubmatchIndex(stencil, -1) {
		if m[2] < 0 {
			continue
		}
		out = append(out, Template{
			Start: m[0],
			End:   m[1],
			Kind:  KindGroupless,
			Name:  stencil[m[2]:m[3]],
			Text:  stencil[m[0]:m[1]],
		})
	}
	return out
}

func overlapsAny(t Template, others []Template) bool {
	for _, o := range others {
		if t.overlaps(o) {
			return true
		}
	}
	return false
}

// Pattern is a single regular expression used by the incremental strategy.
// KeyGroup selects the capture group holding the lookup key and ReplaceGroup
// the span that is overwritten; 0 means the whole match for both.
type Pattern struct {
	re           *regexp.Regexp
	keyGroup     int
	replaceGroup int
}

// BashPattern matches ${name}, looks up the name and replaces the whole match.
var BashPattern = MustPattern(GrouplessExpr, 1, 0)

// NewPattern compiles expr and checks that it defines enough capture groups
// for keyGroup and replaceGroup.
func NewPattern(expr string, keyGroup, replaceGroup int) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	return CompilePattern(re, keyGroup, replaceGroup)
}

// CompilePattern wraps an already compiled expression.
func CompilePattern(re *regexp.Regexp, keyGroup, replaceGroup int) (*Pattern, error) {
	if keyGroup < 0 || replaceGroup < 0 {
		return nil, fmt.Errorf("pattern %q: capture group indices must not be negative (key %d, replace %d)",
			re.String(), keyGroup, replaceGroup)
	}
	required := max(keyGroup, replaceGroup)
	if re.NumSubexp() < required {
		return nil, &PatternError{Expr: re.String(), Required: required, Have: re.NumSubexp()}
	}
	return &Pattern{re: re, keyGroup: keyGroup, replaceGroup: replaceGroup}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(expr string, keyGroup, replaceGroup int) *Pattern {
	p, err := NewPattern(expr, keyGroup, replaceGroup)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source of the regular expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// KeyGroup returns the capture group used as lookup key.
func (p *Pattern) KeyGroup() int { return p.keyGroup }

// ReplaceGroup returns the capture group whose span is replaced.
func (p *Pattern) ReplaceGroup() int { return p.replaceGroup }

// first returns the leftmost match.
func (p *Pattern) first(stencil string) (Template, bool) {
	m := p.re.FindStringSubmatchIndex(stencil)
	if m == nil {
		return Template{}, false
	}
	return p.fromMatch(stencil, m), true
}

// Scan returns every non-overlapping match of the pattern, as templates.
func (p *Pattern) Scan(stencil string) []Template {
	var out []Template
	for _, m := range p.re.FindAllStringSubmatchIndex(stencil, -1) {
		out = append(out, p.fromMatch(stencil, m))
	}
	return out
}

// fromMatch converts submatch indices into a groupless template whose span is
// the replace group. A group that did not take part in the match falls back
// to the whole match for the span and to an empty key.
func (p *Pattern) fromMatch(stencil string, m []int) Template {
	start, end := m[2*p.replaceGroup], m[2*p.replaceGroup+1]
	if start < 0 {
		start, end = m[0], m[1]
	}
	var key string
	if ks := m[2*p.keyGroup]; ks >= 0 {
		key = stencil[ks:m[2*p.keyGroup+1]]
	}
	return Template{
		Start: start,
		End:   end,
		Kind:  KindGroupless,
		Name:  key,
		Text:  stencil[m[0]:m[1]],
	}
}
