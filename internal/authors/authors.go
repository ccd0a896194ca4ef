// Package authors loads the blog author registry.
package authors

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrRegistryUnreadable indicates the registry file exists but could not be
// read or decoded. Callers treat it as a warning and continue with the empty
// directory returned alongside it.
var ErrRegistryUnreadable = errors.New("authors registry unreadable")

// Author is one registry entry.
type Author struct {
	Name        string `yaml:"name"`
	Avatar      string `yaml:"avatar"`
	Description string `yaml:"description,omitempty"`
}

type registryFile struct {
	Authors map[string]Author `yaml:"authors"`
}

// Directory is an immutable author key to Author mapping.
type Directory struct {
	entries map[string]Author
}

// New builds a Directory from entries. The map is copied.
func New(entries map[string]Author) *Directory {
	d := &Directory{entries: make(map[string]Author, len(entries))}
	maps.Copy(d.entries, entries)
	return d
}

// Empty returns a Directory without entries.
func Empty() *Directory {
	return New(nil)
}

// Load reads the registry at path. A missing file yields an empty directory
// and no error.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("%w: %w", ErrRegistryUnreadable, err)
	}
	return Parse(data)
}

// Parse decodes registry YAML.
func Parse(data []byte) (*Directory, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Empty(), fmt.Errorf("%w: %w", ErrRegistryUnreadable, err)
	}
	return New(file.Authors), nil
}

// Lookup returns the entry registered under key.
func (d *Directory) Lookup(key string) (Author, bool) {
	if d == nil {
		return Author{}, false
	}
	a, ok := d.entries[key]
	return a, ok
}

// Len returns the number of registered authors.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
