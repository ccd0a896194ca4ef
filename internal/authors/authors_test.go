package authors

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".authors.yml")
	content := `authors:
  ana:
    name: Ana Souza
    avatar: https://example.com/ana.png
    description: Editora
  rui:
    name: Rui
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	ana, ok := d.Lookup("ana")
	require.True(t, ok)
	assert.Equal(t, Author{Name: "Ana Souza", Avatar: "https://example.com/ana.png", Description: "Editora"}, ana)

	rui, ok := d.Lookup("rui")
	require.True(t, ok)
	assert.Empty(t, rui.Avatar)

	_, ok = d.Lookup("nobody")
	assert.False(t, ok)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 0, d.Len())
}

func TestLoad_MalformedFileIsWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".authors.yml")
	require.NoError(t, os.WriteFile(path, []byte("authors: [unclosed"), 0o600))

	d, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegistryUnreadable))
	require.NotNil(t, d)
	assert.Equal(t, 0, d.Len())
}

func TestLoad_DirectoryIsWarning(t *testing.T) {
	d, err := Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegistryUnreadable))
	assert.Equal(t, 0, d.Len())
}

func TestNewCopiesEntries(t *testing.T) {
	entries := map[string]Author{"a": {Name: "A"}}
	d := New(entries)
	entries["b"] = Author{Name: "B"}

	_, ok := d.Lookup("b")
	assert.False(t, ok)

	var nilDir *Directory
	_, ok = nilDir.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, 0, nilDir.Len())
}
