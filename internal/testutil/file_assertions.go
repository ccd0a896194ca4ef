package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions checks generated files, usually the index page, in tests.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions resolves relative paths against baseDir. Absolute paths
// are used as given.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(fa.baseDir, p)
}

// AssertFileNotExists validates that nothing was written at path.
func (fa *FileAssertions) AssertFileNotExists(path string) *FileAssertions {
	fa.t.Helper()
	full := fa.path(path)
	if _, err := os.Stat(full); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", full)
	}
	return fa
}

// AssertFileContains validates that the file at path contains want.
func (fa *FileAssertions) AssertFileContains(path, want string) *FileAssertions {
	fa.t.Helper()
	content := fa.GetFileContent(path)
	if !strings.Contains(content, want) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", path, want, content)
	}
	return fa
}

// AssertSections validates that the page at path has exactly the given
// category headings, in order.
func (fa *FileAssertions) AssertSections(path string, names ...string) *FileAssertions {
	fa.t.Helper()
	var got []string
	for line := range strings.SplitSeq(fa.GetFileContent(path), "\n") {
		if name, ok := strings.CutPrefix(line, "## "); ok {
			got = append(got, name)
		}
	}
	if strings.Join(got, "|") != strings.Join(names, "|") {
		fa.t.Errorf("Expected sections %q in %s, got %q", names, path, got)
	}
	return fa
}

// AssertPostCount validates how many post fragments carry category.
func (fa *FileAssertions) AssertPostCount(path, category string, want int) *FileAssertions {
	fa.t.Helper()
	marker := `<div class="post-item" data-category="` + category + `">`
	if got := strings.Count(fa.GetFileContent(path), marker); got != want {
		fa.t.Errorf("Expected %d posts in category %q, got %d", want, category, got)
	}
	return fa
}

// GetFileContent reads and returns the content of the file at path.
func (fa *FileAssertions) GetFileContent(path string) string {
	fa.t.Helper()
	full := fa.path(path)
	content, err := os.ReadFile(full)
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", full, err)
	}
	return string(content)
}
