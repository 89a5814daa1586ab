// Package stencil substitutes placeholder tokens inside template strings
// ("stencils") with values supplied by a Resolver, repeating until no
// placeholders remain.
//
// # Placeholder Grammar
//
// The default engine understands two bash-style forms:
//   - ${name} - groupless variable, name matches [A-Za-z0-9_]+
//   - ${group:index} - grouped variable, group matches [A-Za-z]+, index is a
//     non-negative decimal integer
//
// Anything else (an unterminated ${abc, a space in ${abc efg}, a negative
// index in ${lean:-1}) is left in the output untouched.
//
// # Strategies
//
// Two fixpoint strategies are available:
//   - StrategyBatch scans for every grouped and groupless placeholder, rewrites
//     them rightmost first, and loops until a scan comes back empty.
//   - StrategyIncremental uses a single configurable Pattern, replaces the
//     first match and rescans the whole string each time.
//
// Values returned by the Resolver may themselves contain placeholders; they
// are picked up on the next pass. A cycle would loop forever, so every engine
// carries an iteration cap (DefaultMaxIterations unless WithMaxIterations is
// used) and fails with ErrIterationLimitExceeded when it is reached.
//
// # Calling Conventions
//
//	engine := stencil.BashStyle(variables.NewMap(names, groups))
//
//	out, err := engine.Stamp("${Weather}${Rince}")   // strict
//	res := engine.SafeStamp("${lean:0}")              // Result value
//	msg := engine.MustStamp("hello ${user}")          // panics on failure
//
// No call ever returns a partially substituted string.
package stencil
