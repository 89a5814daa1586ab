package variables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "vars.yaml", `
Weather: wax
Rince: wind
lean:
  - delete
  - simplify
  - automate
db:
  host: localhost
  port: 5432
1: numeric key
`)

	m, err := LoadFile(path)
	require.NoError(t, err)

	v, _ := m.LookupName("Weather")
	assert.Equal(t, "wax", v)
	v, _ = m.LookupName("db_port")
	assert.Equal(t, "5432", v)
	v, _ = m.LookupName("1")
	assert.Equal(t, "numeric key", v)
	v, _ = m.LookupGroup("lean", 0)
	assert.Equal(t, "delete", v)
}

func TestLoadFile_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "vars.json", `{"a": "1", "list": [1, 2]}`)
	m, err := LoadFile(path)
	require.NoError(t, err)

	v, _ := m.LookupGroup("list", 1)
	assert.Equal(t, "2", v)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeFile(t, "list.yaml", "- a\n- b\n"))
	assert.ErrorIs(t, err, ErrNotMapping)

	_, err = LoadFile(writeFile(t, "bad.yaml", "a: [unterminated\n"))
	require.ErrorAs(t, err, &fileErr)

	m, err := LoadFile(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "doc.yaml", "owner:\n  name: ada\nregions: [eu, us]\n")
	doc, err := LoadDocument(path)
	require.NoError(t, err)

	v, ok := doc.LookupName("owner.name")
	assert.True(t, ok)
	assert.Equal(t, "ada", v)

	v, ok = doc.LookupGroup("regions", 1)
	assert.True(t, ok)
	assert.Equal(t, "us", v)
}
