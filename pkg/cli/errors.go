package cli

import "errors"

// errReported marks a failure whose details were already written to stdout,
// e.g. as a JSON document. Execute exits non-zero without printing it again.
var errReported = errors.New("failure already reported")

// ErrNoInput is returned when stamp or scan have neither an argument, a file,
// nor piped stdin.
var ErrNoInput = errors.New("no input: pass TEXT, --file, or pipe a stencil on stdin")
