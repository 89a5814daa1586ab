// Package variables provides stencil.Resolver implementations.
//
// # Sources
//
//   - Map - in-memory names and lists, also built from decoded YAML/JSON
//   - Env - process environment, optionally prefixed
//   - Document - JSONPath lookups into a JSON or YAML document
//   - Expr - values computed from expr-lang expressions
//   - Builtin - uuid, now, timestamp and random values
//   - Prompt - asks the user for each value on the terminal
//
// # Composition
//
//   - Chain - consults resolvers in order, first hit wins
//   - Memo - caches answers so a name resolves the same way every time
//
// Builtin and Prompt are not deterministic on their own; wrap them in Memo
// when the same stencil may reference a name more than once.
//
// # Files
//
// LoadFile reads a YAML or JSON file into a Map. Nested mappings are
// flattened with "_" so that they are reachable with the ${name} grammar:
//
//	db:
//	  host: localhost     # ${db_host}
//	hosts: [a, b]         # ${hosts:0}, ${hosts:1}
//
// ValidateFile checks a variables file against a JSON Schema before use.
package variables
