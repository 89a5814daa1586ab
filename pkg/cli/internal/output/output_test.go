package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection(t *testing.T) {
	var single bytes.Buffer
	Section(&single, 0, 1, "a.tmpl")
	assert.Empty(t, single.String())

	var many bytes.Buffer
	for i, name := range []string{"a.tmpl", "b.tmpl"} {
		Section(&many, i, 2, name)
		many.WriteString("body\n")
	}
	assert.Equal(t, "==> a.tmpl <==\nbody\n\n==> b.tmpl <==\nbody\n", many.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]bool{"ok": true}))
	assert.Equal(t, "{\n  \"ok\": true\n}\n", buf.String())
}
