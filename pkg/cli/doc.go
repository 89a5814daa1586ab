// Package cli provides the command-line interface for stencil.
//
// Commands:
//   - stamp: Substitute placeholders in text, a file, or stdin
//   - scan: List the placeholders a stencil contains
//   - render: Stamp every file matching a glob, optionally watching for changes
//   - validate: Check a variable file, optionally against a JSON Schema
//   - version: Show stencil version
//
// Variables come from --var and --list flags, --vars files (YAML or JSON),
// computed --expr definitions, the process environment (--env), built-in
// generators (--builtin), and finally an interactive prompt (--interactive).
// The first source that knows a name wins, in that order.
//
// Usage:
//
//	stencil stamp --var name=world 'hello ${name}'
//	stencil stamp --vars vars.yaml --file motd.tmpl
//	stencil stamp --list hosts=a,b '${hosts:1}'
//	stencil stamp --pattern '\{\{(\w+)\}\}' --var name=world 'hello {{name}}'
//	stencil scan 'x${a}${list:0}'
//	stencil render 'templates/**/*.tmpl' --out build --vars vars.yaml --watch
//	stencil validate --vars vars.yaml --schema vars.schema.json
package cli
